package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"user_mgmt/internal/common"
	"user_mgmt/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	UpdateStatus(ctx context.Context, id, status string) (*model.User, error)
	TouchLastLogin(ctx context.Context, id string) error
	ListPage(ctx context.Context, page, limit int) ([]*model.User, int, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, full_name, email, hashed_password, role, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FullName, user.Email, user.HashedPassword, user.Role, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, full_name, email, hashed_password, role, status, created_at, updated_at, last_login
	          FROM users WHERE email = $1`
	return r.scanRow(r.db.QueryRowContext(ctx, query, email), "FindByEmail")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, full_name, email, hashed_password, role, status, created_at, updated_at, last_login
	          FROM users WHERE id = $1`
	return r.scanRow(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) scanRow(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.HashedPassword,
		&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, id, fullName, email string) (*model.User, error) {
	query := `UPDATE users SET full_name = $1, email = $2, updated_at = now()
	          WHERE id = $3
	          RETURNING id, full_name, email, hashed_password, role, status, created_at, updated_at, last_login`
	user, err := r.scanRow(r.db.QueryRowContext(ctx, query, fullName, email, id), "UpdateProfile")
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	query := `UPDATE users SET hashed_password = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, hashedPassword, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) UpdateStatus(ctx context.Context, id, status string) (*model.User, error) {
	query := `UPDATE users SET status = $1, updated_at = now() WHERE id = $2
	          RETURNING id, status`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(&user.ID, &user.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.UpdateStatus: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("pgUserRepository.TouchLastLogin: %w", err)
	}
	return nil
}

func (r *pgUserRepository) ListPage(ctx context.Context, page, limit int) ([]*model.User, int, error) {
	offset := (page - 1) * limit
	query := `SELECT id, full_name, email, role, status, created_at, updated_at, last_login
	          FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.ListPage: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user := &model.User{}
		var lastLogin sql.NullTime
		if err := rows.Scan(
			&user.ID, &user.FullName, &user.Email,
			&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt, &lastLogin,
		); err != nil {
			return nil, 0, fmt.Errorf("pgUserRepository.ListPage scan: %w", err)
		}
		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.ListPage rows: %w", err)
	}

	// Total is computed independently of the pagination bounds.
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.ListPage count: %w", err)
	}
	return users, total, nil
}
