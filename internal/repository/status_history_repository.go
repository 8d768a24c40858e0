package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/repair-service/internal/domain"
)

// StatusHistoryRepository stores audit entries. Append-only: no update or
// delete operations exist by design.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistory) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.StatusHistory, error)
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository builds repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

func (r *statusHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistory) error {
	const query = `
        INSERT INTO status_history (ticket_id, old_status, new_status, actor_id, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ActorID,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *statusHistoryRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.StatusHistory, error) {
	const query = `
        SELECT id, ticket_id, old_status, new_status, actor_id, note, created_at
        FROM status_history WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistory
	for rows.Next() {
		var entry domain.StatusHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.ActorID,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
