package notification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type storePG struct{ pool *pgxpool.Pool }

// NewStorePG returns a Store backed by the notifications table.
func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

const recordCols = `id, channel, recipient, event_type, claim_id, payor_id, message, status,
	error_message, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.Channel, &r.Recipient, &r.EventType, &r.ClaimID, &r.PayorID,
		&r.Message, &r.Status, &r.Error, &r.CreatedAt)
	return &r, err
}

func (s *storePG) Insert(ctx context.Context, rec *Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (id, channel, recipient, event_type, claim_id, payor_id,
			message, status, error_message, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.Channel, rec.Recipient, rec.EventType, rec.ClaimID, rec.PayorID,
		rec.Message, rec.Status, rec.Error, rec.CreatedAt)
	return err
}

func (s *storePG) ListByPayor(ctx context.Context, payorID string) ([]*Record, error) {
	return s.list(ctx,
		`SELECT `+recordCols+` FROM notifications WHERE payor_id = $1 ORDER BY created_at DESC`,
		payorID)
}

func (s *storePG) ListByClaim(ctx context.Context, payorID, claimID string) ([]*Record, error) {
	return s.list(ctx,
		`SELECT `+recordCols+` FROM notifications WHERE payor_id = $1 AND claim_id = $2 ORDER BY created_at DESC`,
		payorID, claimID)
}

func (s *storePG) list(ctx context.Context, query string, args ...interface{}) ([]*Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
