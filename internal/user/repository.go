package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/metrics"
	"ordering-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*User, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	FindAll(ctx context.Context, filter Filter) ([]*User, error)
	FindWithOrderStatuses(ctx context.Context, statuses []string) ([]*User, error)
	FindTopCustomers(ctx context.Context, limit int) ([]*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `
	u.id, u.first_name, u.last_name, u.email, u.phone_number,
	u.address, u.status, u.version, u.created_at, u.updated_at`

const uniqueViolation = "23505"

var sortColumns = map[string]string{
	"id":        "u.id",
	"firstName": "u.first_name",
	"lastName":  "u.last_name",
	"email":     "u.email",
	"status":    "u.status",
	"createdAt": "u.created_at",
	"updatedAt": "u.updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PhoneNumber,
		&u.Address,
		&u.Status,
		&u.Version,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *repository) Create(ctx context.Context, u *User) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateUser"),
	)

	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO users (
			first_name, last_name, email, phone_number, address, status
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, version, created_at, updated_at
	`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PhoneNumber,
		u.Address,
		string(u.Status),
	).Scan(&u.ID, &u.Version, &u.CreatedAt, &u.UpdatedAt)

	if isUniqueViolation(err) {
		log.Warn("db: duplicate email", zap.String("email", u.Email))
		return errEmailExists(u.Email)
	}
	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateUser"),
		zap.Int64("user_id", u.ID),
		zap.Int("version", u.Version),
	)

	err := db.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE users
		SET first_name = $1,
			last_name = $2,
			email = $3,
			phone_number = $4,
			address = $5,
			status = $6,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at
	`,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PhoneNumber,
		u.Address,
		string(u.Status),
		u.ID,
		u.Version,
	).Scan(&u.Version, &u.UpdatedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.RecordOptimisticLockConflict("user")
		log.Warn("stale user version")
		return apperr.OptimisticLock("User", u.ID)
	case isUniqueViolation(err):
		return errEmailExists(u.Email)
	case err != nil:
		log.Error("db: failed to update user", zap.Error(err))
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound("id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound("email", email)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func buildWhere(f Filter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if f.Status != nil {
		where += fmt.Sprintf(" AND u.status = $%d", argIndex)
		args = append(args, string(*f.Status))
		argIndex++
	}
	if f.Name != nil {
		where += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+*f.Name+"%")
	}

	return where, args
}

func (r *repository) List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*User, error) {
	where, args := buildWhere(filter)

	query := `SELECT ` + userColumns + ` FROM users u` + where +
		" ORDER BY " + page.OrderBy(sortColumns, "u.created_at DESC") + ", u.id ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	return r.query(ctx, "ListUsers", query, args...)
}

func (r *repository) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := buildWhere(filter)

	var total int64
	if err := db.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]*User, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + userColumns + ` FROM users u` + where + " ORDER BY u.last_name ASC, u.first_name ASC"
	return r.query(ctx, "FindAllUsers", query, args...)
}

// FindWithOrderStatuses returns distinct users owning at least one order in
// any of the given statuses.
func (r *repository) FindWithOrderStatuses(ctx context.Context, statuses []string) ([]*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE EXISTS (
			SELECT 1 FROM orders o
			WHERE o.user_id = u.id AND o.status = ANY($1)
		)
		ORDER BY u.id ASC`
	return r.query(ctx, "FindWithOrderStatuses", query, pq.Array(statuses))
}

func (r *repository) FindTopCustomers(ctx context.Context, limit int) ([]*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		GROUP BY u.id
		ORDER BY COUNT(o.id) DESC, u.id ASC
		LIMIT $1`
	return r.query(ctx, "FindTopCustomers", query, limit)
}

func (r *repository) query(ctx context.Context, method, query string, args ...any) ([]*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
