package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voting-service/internal/domain"
)

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, admin.Username, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	if !validID(id) {
		return nil, domain.ErrAdminNotFound
	}
	return r.fetchSingle(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE username=$1`, username)
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username, password_hash, created_at FROM admins ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Admin{}
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}
