package member

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

const memberCols = `id, member_id, payor_id, name, insurance_id, policy_number,
	date_of_birth, phone, email, coverage_start_date, coverage_end_date,
	premium_status, is_active, is_suspended, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.MemberID, &m.PayorID, &m.Name, &m.InsuranceID, &m.PolicyNumber,
		&m.DateOfBirth, &m.Phone, &m.Email, &m.CoverageStart, &m.CoverageEnd,
		&m.PremiumStatus, &m.IsActive, &m.IsSuspended, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "member not found")
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO members (id, member_id, payor_id, name, insurance_id, policy_number,
			date_of_birth, phone, email, coverage_start_date, coverage_end_date,
			premium_status, is_active, is_suspended)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		m.ID, m.MemberID, m.PayorID, m.Name, m.InsuranceID, m.PolicyNumber,
		m.DateOfBirth, m.Phone, m.Email, m.CoverageStart, m.CoverageEnd,
		m.PremiumStatus, m.IsActive, m.IsSuspended)
	return err
}

func (r *repoPG) GetByMemberID(ctx context.Context, payorID, memberID string) (*Member, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+memberCols+` FROM members WHERE payor_id = $1 AND member_id = $2`,
		payorID, memberID))
}

func (r *repoPG) GetByInsuranceID(ctx context.Context, payorID, insuranceID string) (*Member, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+memberCols+` FROM members WHERE payor_id = $1 AND insurance_id = $2`,
		payorID, insuranceID))
}

func (r *repoPG) List(ctx context.Context, payorID string, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE payor_id = $1`, payorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+memberCols+` FROM members WHERE payor_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		payorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Member
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, payorID string, m *Member) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE members SET name=$3, insurance_id=$4, policy_number=$5, date_of_birth=$6,
			phone=$7, email=$8, coverage_start_date=$9, coverage_end_date=$10,
			premium_status=$11, is_active=$12, is_suspended=$13, updated_at=NOW()
		WHERE payor_id = $1 AND member_id = $2`,
		payorID, m.MemberID, m.Name, m.InsuranceID, m.PolicyNumber, m.DateOfBirth,
		m.Phone, m.Email, m.CoverageStart, m.CoverageEnd,
		m.PremiumStatus, m.IsActive, m.IsSuspended)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.E(errs.KindNotFound, "member not found")
	}
	return nil
}

func (r *repoPG) CountActive(ctx context.Context, payorID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE payor_id = $1 AND is_active AND NOT is_suspended`,
		payorID).Scan(&n)
	return n, err
}
