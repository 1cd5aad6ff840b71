package payor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const payorCols = `id, payor_id, email, username, password_hash, name, organization,
	contact_phone, contact_address, is_active,
	auto_preauth_enabled, auto_preauth_limit, require_manual_review_over, emergency_auto_approve,
	created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*Payor, error) {
	var p Payor
	err := row.Scan(&p.ID, &p.PayorID, &p.Email, &p.Username, &p.PasswordHash, &p.Name, &p.Organization,
		&p.ContactPhone, &p.ContactAddress, &p.IsActive,
		&p.Settings.AutoPreauthEnabled, &p.Settings.AutoPreauthLimit, &p.Settings.RequireManualReviewOver, &p.Settings.EmergencyAutoApprove,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "payor not found")
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Payor) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payors (id, payor_id, email, username, password_hash, name, organization,
			contact_phone, contact_address, is_active,
			auto_preauth_enabled, auto_preauth_limit, require_manual_review_over, emergency_auto_approve)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.PayorID, p.Email, p.Username, p.PasswordHash, p.Name, p.Organization,
		p.ContactPhone, p.ContactAddress, p.IsActive,
		p.Settings.AutoPreauthEnabled, p.Settings.AutoPreauthLimit, p.Settings.RequireManualReviewOver, p.Settings.EmergencyAutoApprove)
	return err
}

func (r *repoPG) GetByPayorID(ctx context.Context, payorID string) (*Payor, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `SELECT `+payorCols+` FROM payors WHERE payor_id = $1`, payorID))
}

func (r *repoPG) GetByLogin(ctx context.Context, identifier string) (*Payor, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `
		SELECT `+payorCols+` FROM payors
		WHERE (email = $1 OR username = $1) AND is_active`, identifier))
}

func (r *repoPG) UpdateSettings(ctx context.Context, payorID string, s Settings) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payors SET auto_preauth_enabled=$2, auto_preauth_limit=$3,
			require_manual_review_over=$4, emergency_auto_approve=$5, updated_at=NOW()
		WHERE payor_id = $1`,
		payorID, s.AutoPreauthEnabled, s.AutoPreauthLimit, s.RequireManualReviewOver, s.EmergencyAutoApprove)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.KindNotFound, "payor not found")
	}
	return nil
}

type mappingRepoPG struct{ pool *pgxpool.Pool }

func NewMappingRepoPG(pool *pgxpool.Pool) MappingRepository {
	return &mappingRepoPG{pool: pool}
}

func (r *mappingRepoPG) Create(ctx context.Context, m *InsuranceMapping) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO insurance_payor_mappings (id, insurance_id, payor_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (insurance_id) DO UPDATE SET payor_id = EXCLUDED.payor_id`,
		m.ID, m.InsuranceID, m.PayorID)
	return err
}

func (r *mappingRepoPG) ResolveInsurance(ctx context.Context, insuranceID string) (string, error) {
	var payorID string
	err := r.pool.QueryRow(ctx,
		`SELECT payor_id FROM insurance_payor_mappings WHERE insurance_id = $1`,
		insuranceID).Scan(&payorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errs.E(errs.KindNotFound, "insurance ID %s is not mapped to any payor", insuranceID)
	}
	return payorID, err
}

func (r *mappingRepoPG) List(ctx context.Context) ([]*InsuranceMapping, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, insurance_id, payor_id, created_at FROM insurance_payor_mappings ORDER BY insurance_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*InsuranceMapping
	for rows.Next() {
		var m InsuranceMapping
		if err := rows.Scan(&m.ID, &m.InsuranceID, &m.PayorID, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}
