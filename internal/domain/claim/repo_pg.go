package claim

import (
	"context"
	"encoding/json"
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

const claimCols = `id, claim_id, payor_id, patient_name, patient_id, patient_phone, patient_email,
	insurance_id, member_id, provider_id, provider_name, provider_email,
	diagnosis_code, diagnosis_description, emergency,
	procedure_code, procedure_description, treatment_type, treatment_urgency,
	amount, date_of_service, status, priority, notes,
	coverage_validated, coverage_message, auto_approved, reason_for_review,
	preauth_status, preauth_notes, preauth_updated,
	timeline, decision, submitted_date, last_updated`

func (r *repoPG) scanRow(row pgx.Row) (*Claim, error) {
	var c Claim
	var timeline, decision []byte
	err := row.Scan(&c.ID, &c.ClaimID, &c.PayorID, &c.PatientName, &c.PatientID, &c.PatientPhone, &c.PatientEmail,
		&c.InsuranceID, &c.MemberID, &c.ProviderID, &c.ProviderName, &c.ProviderEmail,
		&c.DiagnosisCode, &c.DiagnosisDescription, &c.Emergency,
		&c.ProcedureCode, &c.ProcedureDescription, &c.TreatmentType, &c.TreatmentUrgency,
		&c.Amount, &c.DateOfService, &c.Status, &c.Priority, &c.Notes,
		&c.CoverageValidated, &c.CoverageMessage, &c.AutoApproved, &c.ReasonForReview,
		&c.PreAuthStatus, &c.PreAuthNotes, &c.PreAuthUpdated,
		&timeline, &decision, &c.SubmittedDate, &c.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "claim not found")
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(timeline, &c.Timeline); err != nil {
		return nil, fmt.Errorf("decode claim timeline: %w", err)
	}
	if len(decision) > 0 {
		c.Decision = &Decision{}
		if err := json.Unmarshal(decision, c.Decision); err != nil {
			return nil, fmt.Errorf("decode claim decision: %w", err)
		}
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Claim) error {
	if c.Timeline == nil {
		c.Timeline = []TimelineEntry{}
	}
	timeline, err := json.Marshal(c.Timeline)
	if err != nil {
		return fmt.Errorf("encode claim timeline: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO claims (id, claim_id, payor_id, patient_name, patient_id, patient_phone, patient_email,
			insurance_id, member_id, provider_id, provider_name, provider_email,
			diagnosis_code, diagnosis_description, emergency,
			procedure_code, procedure_description, treatment_type, treatment_urgency,
			amount, date_of_service, status, priority, notes,
			coverage_validated, coverage_message, auto_approved, reason_for_review,
			preauth_status, timeline)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)`,
		c.ID, c.ClaimID, c.PayorID, c.PatientName, c.PatientID, c.PatientPhone, c.PatientEmail,
		c.InsuranceID, c.MemberID, c.ProviderID, c.ProviderName, c.ProviderEmail,
		c.DiagnosisCode, c.DiagnosisDescription, c.Emergency,
		c.ProcedureCode, c.ProcedureDescription, c.TreatmentType, c.TreatmentUrgency,
		c.Amount, c.DateOfService, c.Status, c.Priority, c.Notes,
		c.CoverageValidated, c.CoverageMessage, c.AutoApproved, c.ReasonForReview,
		c.PreAuthStatus, timeline)
	return err
}

func (r *repoPG) GetByClaimID(ctx context.Context, payorID, claimID string) (*Claim, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+claimCols+` FROM claims WHERE payor_id = $1 AND claim_id = $2`,
		payorID, claimID))
}

func (r *repoPG) List(ctx context.Context, payorID string, f ListFilter, limit, offset int) ([]*Claim, int, error) {
	where := `WHERE payor_id = $1`
	args := []interface{}{payorID}
	if f.Status != "" {
		where += ` AND status = $2`
		args = append(args, f.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM claims %s ORDER BY submitted_date DESC LIMIT $%d OFFSET $%d`,
		claimCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Claim
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ApplyPreAuth(ctx context.Context, payorID, claimID, status, notes string, entry TimelineEntry) (int64, error) {
	entryJSON, err := json.Marshal([]TimelineEntry{entry})
	if err != nil {
		return 0, fmt.Errorf("encode timeline entry: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE claims SET preauth_status = $3, preauth_notes = $4, preauth_updated = NOW(),
			timeline = timeline || $5::jsonb, last_updated = NOW()
		WHERE payor_id = $1 AND claim_id = $2`,
		payorID, claimID, status, notes, entryJSON)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ApplyDecision(ctx context.Context, payorID, claimID, expectedStatus string, d Decision, entry TimelineEntry) (int64, error) {
	decisionJSON, err := json.Marshal(d)
	if err != nil {
		return 0, fmt.Errorf("encode decision: %w", err)
	}
	entryJSON, err := json.Marshal([]TimelineEntry{entry})
	if err != nil {
		return 0, fmt.Errorf("encode timeline entry: %w", err)
	}
	// The status predicate makes this a compare-and-swap: a concurrent
	// decision that already moved the claim leaves zero rows affected.
	tag, err := r.pool.Exec(ctx, `
		UPDATE claims SET status = $4, decision = $5::jsonb,
			timeline = timeline || $6::jsonb, last_updated = NOW()
		WHERE payor_id = $1 AND claim_id = $2 AND status = $3`,
		payorID, claimID, expectedStatus, d.Status, decisionJSON, entryJSON)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type auditRepoPG struct{ pool *pgxpool.Pool }

func NewAuditRepoPG(pool *pgxpool.Pool) AuditRepository {
	return &auditRepoPG{pool: pool}
}

func (r *auditRepoPG) Insert(ctx context.Context, e *AuditEntry) error {
	e.ID = uuid.New()
	detail, err := json.Marshal(e.Detail)
	if err != nil {
		return fmt.Errorf("encode audit detail: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO claim_audit_log (id, ts, claim_id, payor_id, action, reviewer_id, old_status, new_status, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)`,
		e.ID, e.Timestamp, e.ClaimID, e.PayorID, e.Action, e.ReviewerID, e.OldStatus, e.NewStatus, detail)
	return err
}

func (r *auditRepoPG) ListByClaim(ctx context.Context, payorID, claimID string) ([]*AuditEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ts, claim_id, payor_id, action, reviewer_id, old_status, new_status, detail
		FROM claim_audit_log WHERE payor_id = $1 AND claim_id = $2 ORDER BY ts`,
		payorID, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var detail []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ClaimID, &e.PayorID, &e.Action,
			&e.ReviewerID, &e.OldStatus, &e.NewStatus, &detail); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detail, &e.Detail); err != nil {
			return nil, fmt.Errorf("decode audit detail: %w", err)
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
