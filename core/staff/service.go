package staff

import (
	"context"
	"errors"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zawadi/shule/core"
)

var (
	// errors
	ErrNotFound       = errors.New("staff member not found")
	ErrEmailExists    = errors.New("a staff member with this email already exists")
	ErrUsernameExists = errors.New("a staff member with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...Staff) error
		CreateStaff(ctx context.Context, stf Staff) (Staff, error)
		QueryAllStaff(ctx context.Context) ([]Staff, error)
		GetStaffByID(ctx context.Context, id string) (Staff, error)
		GetStaffByUsername(ctx context.Context, username string) (Staff, error)
		GetStaffByEmail(ctx context.Context, email string) (Staff, error)
		GetStaffByUsernameOrEmail(ctx context.Context, username string) (Staff, error)
		// FilterStaff applies AND operation on available QueryFilter fields.
		FilterStaff(ctx context.Context, filter QueryFilter) ([]Staff, error)
		UpdateStaff(ctx context.Context, stf Staff, isActive *bool) (Staff, error)
		DeleteStaffByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) Validate() *validator.Validate { return svc.validate }

func (svc *Service) CheckUniqueness(ctx context.Context, uname, email string, excl ...Staff) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, uname, email, excl...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Staff{}, err
	}
	if err := svc.CheckUniqueness(ctx, ns.Username, ns.Email); err != nil {
		return Staff{}, err
	}

	now := time.Now().UTC()
	stf := Staff{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Username:  ns.Username,
		Email:     ns.Email,
		IsActive:  true,
		Roles:     ns.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stf.SetPassword(ns.Password); err != nil {
		return Staff{}, err
	}
	return svc.repo.CreateStaff(ctx, stf)
}

// Authenticate checks the provided credentials and records the login time.
func (svc *Service) Authenticate(ctx context.Context, login LoginStaff) (Staff, error) {
	if err := login.Validate(svc.validate); err != nil {
		return Staff{}, err
	}
	stf, err := svc.repo.GetStaffByUsernameOrEmail(ctx, login.Username)
	if err != nil {
		return Staff{}, err
	}
	if !stf.IsActive {
		return Staff{}, ErrNotFound
	}
	if err = stf.CheckPassword(login.Password); err != nil {
		return Staff{}, err
	}
	stf.LastLogin = time.Now().UTC()
	return svc.repo.UpdateStaff(ctx, stf, nil)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Staff, error) {
	return svc.repo.QueryAllStaff(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaffByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Staff, error) {
	return svc.repo.GetStaffByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Staff, error) {
	return svc.repo.GetStaffByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Staff, error) {
	return svc.repo.GetStaffByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Staff, error) {
	return svc.repo.FilterStaff(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStaff) (Staff, error) {
	stf, err := svc.repo.GetStaffByID(ctx, id)
	if err != nil {
		return Staff{}, err
	}
	if err = us.Validate(svc.validate, stf); err != nil {
		return Staff{}, err
	}
	if err = svc.CheckUniqueness(ctx, us.Username, us.Email, stf); err != nil {
		return Staff{}, err
	}

	stf.Name = us.Name
	stf.Username = us.Username
	stf.Email = us.Email
	if us.Roles != nil {
		stf.Roles = us.Roles
	}
	if us.Password != "" {
		if err = stf.SetPassword(us.Password); err != nil {
			return Staff{}, err
		}
	}
	stf.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStaff(ctx, stf, us.IsActive)
}

func (svc *Service) SetPassword(ctx context.Context, id, pwd string) (Staff, error) {
	stf, err := svc.repo.GetStaffByID(ctx, id)
	if err != nil {
		return Staff{}, err
	}
	us := UpdateStaff{Password: pwd, PasswordConfirm: pwd}
	if err = us.Validate(svc.validate, stf); err != nil {
		return Staff{}, err
	}
	if err = stf.SetPassword(pwd); err != nil {
		return Staff{}, err
	}
	stf.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStaff(ctx, stf, nil)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStaffByID(ctx, ids...)
}
