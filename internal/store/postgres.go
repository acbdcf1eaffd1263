package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rfcorreia/go-identity-service/internal/types"
)

// PgxPool is the subset of pgxpool.Pool used by the store. It is
// satisfied by pgxmock in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ UserStore = (*PostgresStore)(nil)

// PostgresStore backs the user directory with a users table. ID
// assignment keeps the max(id)+1 contract via a subselect; the unique
// index on email enforces uniqueness.
type PostgresStore struct {
	logger *slog.Logger
	db     PgxPool
}

func NewPostgresStore(db PgxPool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		logger: logger,
		db:     db,
	}
}

const uniqueViolationCode = "23505"

func (s *PostgresStore) Create(ctx context.Context, user types.User) (*types.User, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id, full_name, birth_date, email, password_hash, role, is_active)
		 VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM users), $1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		user.FullName, user.BirthDate, user.Email, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateEmail, user.Email)
		}
		return nil, fmt.Errorf("%w: insert user: %w", types.ErrStorage, err)
	}
	return &user, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*types.User, error) {
	var user types.User
	err := s.db.QueryRow(ctx,
		`SELECT id, full_name, birth_date, email, password_hash, role, is_active
		 FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.FullName, &user.BirthDate, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", types.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: query user by id: %w", types.ErrStorage, err)
	}
	return &user, nil
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	err := s.db.QueryRow(ctx,
		`SELECT id, full_name, birth_date, email, password_hash, role, is_active
		 FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.FullName, &user.BirthDate, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: email not registered", types.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: query user by email: %w", types.ErrStorage, err)
	}
	return &user, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, full_name, birth_date, email, password_hash, role, is_active
		 FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", types.ErrStorage, err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var user types.User
		if err := rows.Scan(&user.ID, &user.FullName, &user.BirthDate, &user.Email,
			&user.PasswordHash, &user.Role, &user.IsActive); err != nil {
			return nil, fmt.Errorf("%w: scan user row: %w", types.ErrStorage, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate user rows: %w", types.ErrStorage, err)
	}
	return users, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate user: %w", types.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", types.ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count users: %w", types.ErrStorage, err)
	}
	return count, nil
}
