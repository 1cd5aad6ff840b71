package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ClaimTotals(ctx context.Context, payorID string) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'partially_approved'),
			COUNT(*) FILTER (WHERE status = 'under_review'),
			COALESCE(SUM(amount), 0),
			COUNT(*) FILTER (WHERE preauth_status = 'pending'),
			COUNT(*) FILTER (WHERE auto_approved)
		FROM claims WHERE payor_id = $1`, payorID).
		Scan(&t.Total, &t.Pending, &t.Approved, &t.Rejected, &t.PartiallyApproved,
			&t.UnderReview, &t.AmountSum, &t.PreAuthPending, &t.AutoApproved)
	if err != nil {
		return Totals{}, fmt.Errorf("claim totals: %w", err)
	}
	return t, nil
}

func (r *repoPG) ClaimsByStatus(ctx context.Context, payorID string) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM claims
		WHERE payor_id = $1 GROUP BY status ORDER BY COUNT(*) DESC`, payorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *repoPG) RecentActivity(ctx context.Context, payorID string, limit int) ([]ActivityEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT claim_id, patient_name, status, amount, to_char(last_updated, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM claims WHERE payor_id = $1
		ORDER BY last_updated DESC LIMIT $2`, payorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var a ActivityEntry
		if err := rows.Scan(&a.ClaimID, &a.PatientName, &a.Status, &a.Amount, &a.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
