package preauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const preauthCols = `id, preauth_id, claim_id, payor_id, member_name, procedure_name, provider_name,
	urgency, status, notes, requested_date, last_updated`

func (r *repoPG) scanRow(row pgx.Row) (*PreAuthorization, error) {
	var p PreAuthorization
	err := row.Scan(&p.ID, &p.PreAuthID, &p.ClaimID, &p.PayorID, &p.MemberName, &p.Procedure,
		&p.ProviderName, &p.Urgency, &p.Status, &p.Notes, &p.RequestedDate, &p.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "pre-authorization not found")
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *PreAuthorization) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pre_authorizations (id, preauth_id, claim_id, payor_id, member_name, procedure_name,
			provider_name, urgency, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.PreAuthID, p.ClaimID, p.PayorID, p.MemberName, p.Procedure,
		p.ProviderName, p.Urgency, p.Status, p.Notes)
	return err
}

func (r *repoPG) GetByPreAuthID(ctx context.Context, payorID, preAuthID string) (*PreAuthorization, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+preauthCols+` FROM pre_authorizations WHERE payor_id = $1 AND preauth_id = $2`,
		payorID, preAuthID))
}

func (r *repoPG) GetByClaimID(ctx context.Context, payorID, claimID string) (*PreAuthorization, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+preauthCols+` FROM pre_authorizations WHERE payor_id = $1 AND claim_id = $2`,
		payorID, claimID))
}

func (r *repoPG) List(ctx context.Context, payorID, status string, limit, offset int) ([]*PreAuthorization, int, error) {
	where := `WHERE payor_id = $1`
	args := []interface{}{payorID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pre_authorizations `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pre-authorizations: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM pre_authorizations %s ORDER BY requested_date DESC LIMIT $%d OFFSET $%d`,
		preauthCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PreAuthorization
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, payorID, preAuthID, status, notes string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pre_authorizations SET status = $3, notes = $4, last_updated = NOW()
		WHERE payor_id = $1 AND preauth_id = $2`,
		payorID, preAuthID, status, notes)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
