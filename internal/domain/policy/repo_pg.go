package policy

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

const policyCols = `id, policy_id, payor_id, name, policy_type,
	covered_diagnoses, excluded_diagnoses, covered_procedures, excluded_procedures,
	annual_limit, per_incident_limit, deductible, copay_percentage,
	is_active, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.PolicyID, &p.PayorID, &p.Name, &p.PolicyType,
		&p.CoveredDiagnoses, &p.ExcludedDiagnoses, &p.CoveredProcedures, &p.ExcludedProcedures,
		&p.AnnualLimit, &p.PerIncidentLimit, &p.Deductible, &p.CopayPercentage,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "policy not found")
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Policy) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO policies (id, policy_id, payor_id, name, policy_type,
			covered_diagnoses, excluded_diagnoses, covered_procedures, excluded_procedures,
			annual_limit, per_incident_limit, deductible, copay_percentage, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.PolicyID, p.PayorID, p.Name, p.PolicyType,
		p.CoveredDiagnoses, p.ExcludedDiagnoses, p.CoveredProcedures, p.ExcludedProcedures,
		p.AnnualLimit, p.PerIncidentLimit, p.Deductible, p.CopayPercentage, p.IsActive)
	return err
}

func (r *repoPG) GetByPolicyID(ctx context.Context, payorID, policyID string) (*Policy, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+policyCols+` FROM policies WHERE payor_id = $1 AND policy_id = $2`,
		payorID, policyID))
}

func (r *repoPG) List(ctx context.Context, payorID string, limit, offset int) ([]*Policy, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM policies WHERE payor_id = $1`, payorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count policies: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+policyCols+` FROM policies WHERE payor_id = $1
		 ORDER BY policy_id LIMIT $2 OFFSET $3`,
		payorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Policy
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, payorID string, p *Policy) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE policies SET name=$3, policy_type=$4,
			covered_diagnoses=$5, excluded_diagnoses=$6, covered_procedures=$7, excluded_procedures=$8,
			annual_limit=$9, per_incident_limit=$10, deductible=$11, copay_percentage=$12,
			is_active=$13, updated_at=NOW()
		WHERE payor_id = $1 AND policy_id = $2`,
		payorID, p.PolicyID, p.Name, p.PolicyType,
		p.CoveredDiagnoses, p.ExcludedDiagnoses, p.CoveredProcedures, p.ExcludedProcedures,
		p.AnnualLimit, p.PerIncidentLimit, p.Deductible, p.CopayPercentage, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.KindNotFound, "policy not found")
	}
	return nil
}
