package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voting-service/internal/domain"
)

// CandidateRepository is the candidate directory.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	Update(ctx context.Context, candidate *domain.Candidate) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Candidate, error)
}

type candidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository returns a Postgres-backed implementation.
func NewCandidateRepository(pool *pgxpool.Pool) CandidateRepository {
	return &candidateRepository{pool: pool}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	const query = `
        INSERT INTO candidates (name, description, image_url)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		candidate.Name,
		candidate.Description,
		candidate.ImageURL,
	).Scan(&candidate.ID, &candidate.CreatedAt, &candidate.UpdatedAt)
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	if !validID(candidate.ID) {
		return domain.ErrCandidateNotFound
	}
	const query = `
        UPDATE candidates SET name=$1, description=$2, image_url=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		candidate.Name,
		candidate.Description,
		candidate.ImageURL,
		candidate.ID,
	).Scan(&candidate.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCandidateNotFound
	}
	return err
}

func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrCandidateNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	if !validID(id) {
		return nil, domain.ErrCandidateNotFound
	}
	const query = `
        SELECT id, name, description, image_url, created_at, updated_at
        FROM candidates WHERE id=$1`

	var c domain.Candidate
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *candidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	const query = `
        SELECT id, name, description, image_url, created_at, updated_at
        FROM candidates ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Candidate{}
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.ImageURL,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
