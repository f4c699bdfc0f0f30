// Package dummydb provides an in-memory storage backend for development
// and tests.
package dummydb

import (
	"sync"

	"github.com/zawadi/shule/core/staff"
	"github.com/zawadi/shule/core/student"
)

type (
	DB struct {
		student *studentTable
		staff   *staffTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		staff:   &staffTable{table: make(map[string]*staff.Staff)},
	}
	return db, nil
}
