package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voting-service/internal/domain"
)

// VoterRepository stores voter accounts and their recorded ballots.
type VoterRepository interface {
	Create(ctx context.Context, voter *domain.Voter) error
	GetByID(ctx context.Context, id string) (*domain.Voter, error)
	GetByUsername(ctx context.Context, username string) (*domain.Voter, error)
	List(ctx context.Context) ([]domain.Voter, error)
	// MarkVoted records the selection and flips HasVoted in one conditional write.
	// It returns domain.ErrAlreadyVoted when the stored record has already voted.
	MarkVoted(ctx context.Context, id string, selection []string) (*domain.Voter, error)
}

type voterRepository struct {
	pool *pgxpool.Pool
}

// NewVoterRepository returns a Postgres-backed implementation.
func NewVoterRepository(pool *pgxpool.Pool) VoterRepository {
	return &voterRepository{pool: pool}
}

const voterColumns = `id, username, password_hash, has_voted, votes, voted_at, created_at`

func (r *voterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	const query = `
        INSERT INTO voters (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, has_voted, votes, created_at`

	err := r.pool.QueryRow(ctx, query,
		voter.Username,
		voter.PasswordHash,
	).Scan(&voter.ID, &voter.HasVoted, &voter.Votes, &voter.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *voterRepository) GetByID(ctx context.Context, id string) (*domain.Voter, error) {
	if !validID(id) {
		return nil, domain.ErrVoterNotFound
	}
	return r.fetchSingle(ctx, `SELECT `+voterColumns+` FROM voters WHERE id=$1`, id)
}

func (r *voterRepository) GetByUsername(ctx context.Context, username string) (*domain.Voter, error) {
	return r.fetchSingle(ctx, `SELECT `+voterColumns+` FROM voters WHERE username=$1`, username)
}

func (r *voterRepository) List(ctx context.Context) ([]domain.Voter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+voterColumns+` FROM voters ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Voter{}
	for rows.Next() {
		voter, err := scanVoter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *voter)
	}
	return result, rows.Err()
}

func (r *voterRepository) MarkVoted(ctx context.Context, id string, selection []string) (*domain.Voter, error) {
	if !validID(id) {
		return nil, domain.ErrVoterNotFound
	}
	const query = `
        UPDATE voters SET has_voted=TRUE, votes=$2, voted_at=NOW()
        WHERE id=$1 AND has_voted=FALSE
        RETURNING ` + voterColumns

	voter, err := scanVoter(r.pool.QueryRow(ctx, query, id, selection))
	if err == nil {
		return voter, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row matched: either the voter is gone or the flag was already set.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrAlreadyVoted
}

func (r *voterRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Voter, error) {
	voter, err := scanVoter(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVoterNotFound
	}
	return voter, err
}

func scanVoter(row pgx.Row) (*domain.Voter, error) {
	var voter domain.Voter
	if err := row.Scan(
		&voter.ID,
		&voter.Username,
		&voter.PasswordHash,
		&voter.HasVoted,
		&voter.Votes,
		&voter.VotedAt,
		&voter.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &voter, nil
}
