package postgresdb

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zawadi/shule/core/staff"
)

const staffCols = `id, name, username, email, is_active, roles, password_hash,
	created_at, updated_at, last_login`

// dbStaff adapts staff.Staff to the staff table; roles need pq array handling.
type dbStaff struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     sql.NullString `db:"username"`
	Email        sql.NullString `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func toDBStaff(stf staff.Staff) dbStaff {
	return dbStaff{
		ID:           stf.ID,
		Name:         stf.Name,
		Username:     sql.NullString{String: stf.Username, Valid: stf.Username != ""},
		Email:        sql.NullString{String: stf.Email, Valid: stf.Email != ""},
		IsActive:     stf.IsActive,
		Roles:        stf.Roles,
		PasswordHash: stf.PasswordHash,
		CreatedAt:    stf.CreatedAt,
		UpdatedAt:    stf.UpdatedAt,
		LastLogin:    sql.NullTime{Time: stf.LastLogin, Valid: !stf.LastLogin.IsZero()},
	}
}

func (row dbStaff) toStaff() staff.Staff {
	return staff.Staff{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username.String,
		Email:        row.Email.String,
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sql.DB) staff.Repository {
	return &staffRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *staffRepository) getWhere(ctx context.Context, where string, args ...interface{}) (staff.Staff, error) {
	var row dbStaff
	query := `SELECT ` + staffCols + ` FROM staff WHERE ` + where
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return staff.Staff{}, staff.ErrNotFound
		}
		return staff.Staff{}, errors.Wrap(err, "getting staff member")
	}
	return row.toStaff(), nil
}

func (repo *staffRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...staff.Staff) error {
	check := func(col, val string, dupErr error) error {
		if val == "" {
			return nil
		}
		query := `SELECT EXISTS (SELECT 1 FROM staff WHERE ` + col + ` = $1`
		args := []interface{}{val}
		for i, ex := range excluded {
			query += ` AND id <> $` + strconv.Itoa(i+2)
			args = append(args, ex.ID)
		}
		query += `)`

		var exists bool
		if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
			return errors.Wrap(err, "checking staff uniqueness")
		}
		if exists {
			return dupErr
		}
		return nil
	}

	if err := check("username", username, staff.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, staff.ErrEmailExists)
}

func (repo *staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	query := `INSERT INTO staff (` + staffCols + `) VALUES
		(:id, :name, :username, :email, :is_active, :roles, :password_hash,
		:created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, query, toDBStaff(stf)); err != nil {
		return staff.Staff{}, errors.Wrap(err, "creating staff member")
	}
	return stf, nil
}

func (repo *staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	var rows []dbStaff
	query := `SELECT ` + staffCols + ` FROM staff ORDER BY name`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}
	members := make([]staff.Staff, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toStaff())
	}
	return members, nil
}

func (repo *staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	return repo.getWhere(ctx, `id = $1`, id)
}

func (repo *staffRepository) GetStaffByUsername(ctx context.Context, username string) (staff.Staff, error) {
	return repo.getWhere(ctx, `username = $1`, username)
}

func (repo *staffRepository) GetStaffByEmail(ctx context.Context, email string) (staff.Staff, error) {
	return repo.getWhere(ctx, `email = $1`, email)
}

func (repo *staffRepository) GetStaffByUsernameOrEmail(ctx context.Context, username string) (staff.Staff, error) {
	return repo.getWhere(ctx, `username = $1 OR email = $1`, username)
}

func (repo *staffRepository) FilterStaff(ctx context.Context, filter staff.QueryFilter) ([]staff.Staff, error) {
	query := `SELECT ` + staffCols + ` FROM staff WHERE true`
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR username ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}
	if len(filter.Roles) > 0 {
		// prefix match so "admin:" covers "admin:owner" etc
		args = append(args, pq.Array(rolePatterns(filter.Roles)))
		query += ` AND EXISTS (SELECT 1 FROM unnest(roles) role
			WHERE role LIKE ANY ($` + strconv.Itoa(len(args)) + `::text[]))`
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY name`

	var rows []dbStaff
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering staff")
	}
	members := make([]staff.Staff, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toStaff())
	}
	return members, nil
}

func rolePatterns(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r+"%")
	}
	return out
}

func (repo *staffRepository) UpdateStaff(ctx context.Context, stf staff.Staff, isActive *bool) (staff.Staff, error) {
	if isActive != nil {
		stf.IsActive = *isActive
	} else {
		current, err := repo.GetStaffByID(ctx, stf.ID)
		if err != nil {
			return staff.Staff{}, err
		}
		stf.IsActive = current.IsActive
	}

	query := `UPDATE staff SET
		name = :name, username = :username, email = :email, is_active = :is_active,
		roles = :roles, password_hash = :password_hash, updated_at = :updated_at,
		last_login = :last_login
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, toDBStaff(stf))
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff member")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.Staff{}, staff.ErrNotFound
	}
	return stf, nil
}

func (repo *staffRepository) DeleteStaffByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM staff WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return nil
}
