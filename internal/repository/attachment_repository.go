package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/repair-service/internal/domain"
)

// AttachmentRepository persists ticket image metadata. Reconcile implements
// the keep+new instruction a submitted edit session produces: rows absent
// from keep are deleted, new rows are appended.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByTicket(ctx context.Context, ticketID int64, kind domain.AttachmentKind) ([]domain.Attachment, error)
	Reconcile(ctx context.Context, ticketID int64, kind domain.AttachmentKind, keep []int64, add []domain.Attachment) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, kind, file_path, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.Kind,
		attachment.FilePath,
		attachment.FileName,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64, kind domain.AttachmentKind) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, kind, file_path, file_name, mime_type, size_bytes, created_at
        FROM ticket_attachments WHERE ticket_id=$1 AND kind=$2 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, ticketID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.Kind,
			&attachment.FilePath,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) Reconcile(ctx context.Context, ticketID int64, kind domain.AttachmentKind, keep []int64, add []domain.Attachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const deleteQuery = `
        DELETE FROM ticket_attachments
        WHERE ticket_id=$1 AND kind=$2 AND NOT (id = ANY($3))`
	if _, err := tx.Exec(ctx, deleteQuery, ticketID, kind, keep); err != nil {
		return err
	}

	const insertQuery = `
        INSERT INTO ticket_attachments (ticket_id, kind, file_path, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, attachment := range add {
		if _, err := tx.Exec(ctx, insertQuery,
			ticketID,
			kind,
			attachment.FilePath,
			attachment.FileName,
			attachment.MimeType,
			attachment.SizeBytes,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
