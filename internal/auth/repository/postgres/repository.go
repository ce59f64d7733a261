package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of pgxpool.Pool the repository needs; pgxmock
// implements it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

var _ domain.UserRepository = (*PostgresRepository)(nil)

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// NewWithInterface is used by tests to inject a mock connection.
func NewWithInterface(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, first_name, last_name, username, name, email, password, role, phone, address, birthday, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Name, &u.Email,
		&u.PasswordHash, &u.Role, &u.Phone, &u.Address, &u.Birthday, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByEmailOrUsername returns every user colliding with the given email
// or username, so registration can report both conflicts at once.
func (r *PostgresRepository) GetByEmailOrUsername(ctx context.Context, email, username string) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 OR username = $2;
	`
	rows, err := r.db.Query(ctx, query, email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user conflicts: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, first_name, last_name, username, name, email, password, role, phone, address, birthday, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, user.ID, user.FirstName, user.LastName, user.Username, user.Name, user.Email,
		user.PasswordHash, user.Role, user.Phone, user.Address, user.Birthday, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET phone = $1, address = $2, birthday = $3, updated_at = $4
		WHERE id = $5
	`, user.Phone, user.Address, user.Birthday, time.Now(), user.ID)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1, updated_at = $2
		WHERE id = $3
	`, passwordHash, time.Now(), userID)

	return err
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, userID, role string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET role = $1, updated_at = $2
		WHERE id = $3
	`, role, time.Now(), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, email, ip string, successful bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_address, attempt_time, successful)
		VALUES (gen_random_uuid(), $1, $2, now(), $3)
	`, email, ip, successful)
	return err
}
