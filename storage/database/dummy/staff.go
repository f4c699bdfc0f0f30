package dummydb

import (
	"context"
	"strings"

	"github.com/zawadi/shule/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) query() []staff.Staff {
	members := make([]staff.Staff, 0, len(repo.db.table))
	for _, stf := range repo.db.table {
		members = append(members, *stf)
	}
	return members
}

func (repo *staffRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...staff.Staff) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	isExcluded := func(stf staff.Staff) bool {
		for _, ex := range excluded {
			if ex.ID == stf.ID {
				return true
			}
		}
		return false
	}
	for _, stf := range repo.query() {
		if isExcluded(stf) {
			continue
		}
		if username != "" && stf.Username == username {
			return staff.ErrUsernameExists
		}
		if email != "" && stf.Email == email {
			return staff.ErrEmailExists
		}
	}
	return nil
}

func (repo *staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[stf.ID] = &stf
	return stf, nil
}

func (repo *staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stf, ok := repo.db.table[id]; ok {
		return *stf, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByUsername(ctx context.Context, username string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stf := range repo.query() {
		if stf.Username == username {
			return stf, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByEmail(ctx context.Context, email string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stf := range repo.query() {
		if stf.Email == email {
			return stf, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByUsernameOrEmail(ctx context.Context, username string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stf := range repo.query() {
		if (stf.Username == username) || (stf.Email == username) {
			return stf, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) FilterStaff(ctx context.Context, filter staff.QueryFilter) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := repo.query()

	// members with search keyword matching any Name, Username or Email ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []staff.Staff
		for _, stf := range members {
			if strings.Contains(strings.ToLower(stf.Username), search) ||
				strings.Contains(strings.ToLower(stf.Email), search) ||
				strings.Contains(strings.ToLower(stf.Name), search) {
				filtered = append(filtered, stf)
			}
		}
		members = filtered
	}
	// members with any of the specified roles
	if members != nil && len(filter.Roles) > 0 {
		var filtered []staff.Staff
		for _, stf := range members {
			for _, r := range filter.Roles {
				if stf.RoleStartsWith(r) {
					filtered = append(filtered, stf)
					break
				}
			}
		}
		members = filtered
	}
	if members != nil && filter.IsActive != nil {
		var filtered []staff.Staff
		for _, stf := range members {
			if stf.IsActive == *filter.IsActive {
				filtered = append(filtered, stf)
			}
		}
		members = filtered
	}
	return members, nil
}

func (repo *staffRepository) UpdateStaff(ctx context.Context, stf staff.Staff, isActive *bool) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[stf.ID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	if isActive != nil {
		stf.IsActive = *isActive
	} else {
		stf.IsActive = orig.IsActive
	}
	repo.db.table[stf.ID] = &stf
	return stf, nil
}

func (repo *staffRepository) DeleteStaffByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
