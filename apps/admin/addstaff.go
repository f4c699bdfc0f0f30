package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/staff"
)

// addStaff updates or creates a staff.Staff with full admin rights on demand.
func (cli *commandLine) addStaff(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	lookup := uname
	if lookup == "" {
		lookup = email
	}

	stf, err := cli.staffRepo.GetStaffByUsernameOrEmail(ctx, lookup)
	if err != nil {
		if err != staff.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		stf = staff.Staff{
			ID:        uuid.New().String(),
			Name:      uname,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			stf.Roles = staff.AllRoles
		}
		if err := stf.SetPassword(pwd); err != nil {
			return err
		}
		stf.IsActive = true
		_, err = cli.staffRepo.CreateStaff(ctx, stf)
		return err
	}

	if isAdmin {
		stf.Roles = staff.AllRoles
	}
	if err := stf.SetPassword(pwd); err != nil {
		return err
	}
	stf.IsActive = true
	stf.UpdatedAt = time.Now().UTC()
	_, err = cli.staffRepo.UpdateStaff(ctx, stf, &stf.IsActive)
	return err
}
