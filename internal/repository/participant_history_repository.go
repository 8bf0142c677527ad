package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/participant-service/internal/domain"
)

// ParticipantHistoryRepository stores lifecycle audit entries.
type ParticipantHistoryRepository interface {
	Create(ctx context.Context, history *domain.ParticipantHistory) error
	ListByEmail(ctx context.Context, email string) ([]domain.ParticipantHistory, error)
}

type participantHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantHistoryRepository builds a Postgres-backed repository.
func NewParticipantHistoryRepository(pool *pgxpool.Pool) ParticipantHistoryRepository {
	return &participantHistoryRepository{pool: pool}
}

func (r *participantHistoryRepository) Create(ctx context.Context, history *domain.ParticipantHistory) error {
	const query = `
        INSERT INTO participant_history (email, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		history.Email,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *participantHistoryRepository) ListByEmail(ctx context.Context, email string) ([]domain.ParticipantHistory, error) {
	const query = `
        SELECT id, email, change_type, old_value, new_value, created_at
        FROM participant_history WHERE email=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ParticipantHistory
	for rows.Next() {
		var history domain.ParticipantHistory
		if err := rows.Scan(
			&history.ID,
			&history.Email,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
