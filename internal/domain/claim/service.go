package claim

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/domain/payor"
	"github.com/hcms/payor-api/internal/domain/policy"
	"github.com/hcms/payor-api/internal/platform/errs"
	"github.com/hcms/payor-api/internal/platform/notification"
)

// SettingsSource supplies a payor's adjudication settings.
type SettingsSource interface {
	GetSettings(ctx context.Context, payorID string) (payor.Settings, error)
}

// InsuranceResolver maps an external insurance identifier to its payor.
type InsuranceResolver interface {
	ResolveInsurance(ctx context.Context, insuranceID string) (string, error)
}

// CoverageChecker validates diagnosis/procedure codes against a policy.
type CoverageChecker interface {
	CheckCoverage(ctx context.Context, payorID, policyID, diagnosisCode, procedureCode string) (policy.CoverageResult, error)
}

// Notifier delivers claim events. Implementations must swallow delivery
// failures; dispatch never blocks or fails a decision.
type Notifier interface {
	DispatchClaimEvent(ctx context.Context, ev notification.ClaimEvent)
}

type Service struct {
	claims   Repository
	audit    AuditRepository
	settings SettingsSource
	resolver InsuranceResolver
	coverage CoverageChecker
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(claims Repository, audit AuditRepository, settings SettingsSource,
	resolver InsuranceResolver, coverage CoverageChecker, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		claims:   claims,
		audit:    audit,
		settings: settings,
		resolver: resolver,
		coverage: coverage,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit accepts a provider claim submission: it resolves the insurance ID
// to the owning payor, runs the intake coverage check against the submitted
// diagnosis, and auto-approves or routes to review. This intake path is
// deliberately simpler than EvaluatePreAuth and the two are kept separate.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	var missing []string
	if req.PatientName == "" {
		missing = append(missing, "patient_name")
	}
	if req.InsuranceID == "" {
		missing = append(missing, "insurance_id")
	}
	if req.DiagnosisCode == "" {
		missing = append(missing, "diagnosis_code")
	}
	if req.Amount <= 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return nil, errs.E(errs.KindInvalidInput, "Missing required fields: %s", strings.Join(missing, ", "))
	}

	payorID, err := s.resolver.ResolveInsurance(ctx, req.InsuranceID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.E(errs.KindNotFound,
				"Insurance ID %s not found or not covered by this payor", req.InsuranceID)
		}
		return nil, err
	}

	// The insurance identifier doubles as the policy identifier at intake.
	cov, err := s.coverage.CheckCoverage(ctx, payorID, req.InsuranceID, req.DiagnosisCode, "")
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "intake coverage check")
	}

	now := s.now().UTC()
	c := &Claim{
		ID:                   uuid.New(),
		PayorID:              payorID,
		PatientName:          req.PatientName,
		PatientID:            req.PatientID,
		PatientPhone:         req.PatientPhone,
		PatientEmail:         req.PatientEmail,
		InsuranceID:          req.InsuranceID,
		DiagnosisCode:        req.DiagnosisCode,
		DiagnosisDescription: req.DiagnosisDescription,
		Emergency:            req.Emergency,
		ProcedureCode:        req.ProcedureCode,
		ProcedureDescription: req.ProcedureDescription,
		TreatmentType:        req.TreatmentType,
		TreatmentUrgency:     req.TreatmentUrgency,
		Amount:               float64(req.Amount),
		DateOfService:        req.DateOfService,
		Priority:             req.Priority,
		Notes:                req.Notes,
		ProviderID:           req.ProviderID,
		ProviderName:         req.ProviderName,
		ProviderEmail:        req.ProviderEmail,
		CoverageValidated:    cov.Covered,
		CoverageMessage:      cov.Reason,
		PreAuthStatus:        PreAuthPending,
		Timeline:             []TimelineEntry{},
		SubmittedDate:        now,
		LastUpdated:          now,
	}
	c.ClaimID = NewClaimID(c.ID, now)

	if c.PatientID == "" {
		tail := req.InsuranceID
		if len(tail) > 5 {
			tail = tail[len(tail)-5:]
		}
		c.PatientID = "P-" + tail
	}
	if c.ProviderID == "" {
		c.ProviderID = "PROV-001"
	}
	if c.ProviderName == "" {
		c.ProviderName = "Healthcare Provider"
	}
	if c.DateOfService == "" {
		c.DateOfService = now.Format("2006-01-02")
	}
	if c.Priority == "" {
		c.Priority = "medium"
	}
	if c.TreatmentUrgency == "" {
		c.TreatmentUrgency = "Standard"
	}

	if cov.Covered {
		c.Status = StatusApproved
		c.AutoApproved = true
	} else {
		c.Status = StatusUnderReview
		c.ReasonForReview = cov.Reason
	}

	if err := s.claims.Create(ctx, c); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create claim")
	}

	s.logger.Info().
		Str("claim_id", c.ClaimID).
		Str("payor_id", payorID).
		Str("status", c.Status).
		Bool("auto_approved", c.AutoApproved).
		Msg("claim submitted")

	s.dispatch(ctx, c, notification.EventClaimSubmitted, 0)

	return &SubmitResult{
		Success:               true,
		Message:               "Claim submitted successfully",
		Claim:                 c,
		Status:                c.Status,
		AutoApproved:          c.AutoApproved,
		ExpectedPayment:       expectedPayment(c),
		PatientResponsibility: patientResponsibility(c),
	}, nil
}

// Covered intake claims pay out at the standard 80/20 split; anything still
// in review carries no expected payment and full patient responsibility.
func expectedPayment(c *Claim) float64 {
	if !c.AutoApproved {
		return 0
	}
	return round2(c.Amount * 0.8)
}

func patientResponsibility(c *Claim) float64 {
	if !c.AutoApproved {
		return c.Amount
	}
	return round2(c.Amount * 0.2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) Get(ctx context.Context, payorID, claimID string) (*Claim, error) {
	return s.claims.GetByClaimID(ctx, payorID, claimID)
}

func (s *Service) List(ctx context.Context, payorID string, f ListFilter, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, payorID, f, limit, offset)
}

// EvaluatePreAuth applies the payor's pre-authorization rules to a claim.
// The rules run in strict precedence order and the first match wins:
//
//  1. emergency diagnosis, when emergency auto-approve is enabled
//  2. amount within the auto-approve limit with routine/standard urgency
//  3. preventive, wellness or screening treatment
//  4. amount above the manual-review threshold
//  5. everything else falls back to manual review
func (s *Service) EvaluatePreAuth(ctx context.Context, payorID, claimID string) (PreAuthResult, error) {
	c, err := s.claims.GetByClaimID(ctx, payorID, claimID)
	if err != nil {
		return PreAuthResult{}, err
	}

	settings, err := s.settings.GetSettings(ctx, payorID)
	if err != nil {
		return PreAuthResult{}, err
	}

	result := PreAuthResult{ClaimID: claimID}
	urgency := strings.ToLower(c.TreatmentUrgency)
	treatment := strings.ToLower(c.TreatmentType)
	var notes string

	switch {
	case settings.EmergencyAutoApprove && c.Emergency:
		result.Approved = true
		result.Status = PreAuthApproved
		notes = "Auto-approved: Emergency case"
		result.Message = "Auto-approved for emergency treatment"
	case c.Amount <= settings.AutoPreauthLimit && (urgency == "routine" || urgency == "standard"):
		result.Approved = true
		result.Status = PreAuthApproved
		notes = fmt.Sprintf("Auto-approved: Amount under $%.2f", settings.AutoPreauthLimit)
		result.Message = fmt.Sprintf("Auto-approved for routine treatment under $%.2f", settings.AutoPreauthLimit)
	case treatment == "preventive" || treatment == "wellness" || treatment == "screening":
		result.Approved = true
		result.Status = PreAuthApproved
		notes = "Auto-approved: Preventive care"
		result.Message = "Auto-approved for preventive care"
	case c.Amount > settings.RequireManualReviewOver:
		result.Status = PreAuthManualReview
		notes = fmt.Sprintf("Requires manual review: Amount over $%.2f", settings.RequireManualReviewOver)
		result.Message = fmt.Sprintf("Requires manual review - amount exceeds $%.2f", settings.RequireManualReviewOver)
	default:
		result.Status = PreAuthManualReview
		notes = "Standard manual review required"
		result.Message = "Requires manual review"
	}

	entry := TimelineEntry{
		Timestamp: s.now().UTC(),
		Action:    "Pre-auth " + result.Status,
		Notes:     notes,
		Automated: true,
	}
	rows, err := s.claims.ApplyPreAuth(ctx, payorID, claimID, result.Status, notes, entry)
	if err != nil {
		return PreAuthResult{}, errs.Wrap(errs.KindInternal, err, "apply pre-auth")
	}
	if rows == 0 {
		return PreAuthResult{}, errs.E(errs.KindUpdateConflict, "claim %s was modified concurrently", claimID)
	}

	s.logger.Info().
		Str("claim_id", claimID).
		Str("payor_id", payorID).
		Str("preauth_status", result.Status).
		Bool("approved", result.Approved).
		Msg("pre-authorization evaluated")
	return result, nil
}

// ProcessDecision records a reviewer's final decision on a claim. The status
// write is a compare-and-swap against the claim's current status; a lost race
// is retried once against re-read state before surfacing a conflict. The
// audit record is inserted after the claim update commits: the two writes are
// not transactional, and at-least-once audit logging is the accepted
// trade-off.
func (s *Service) ProcessDecision(ctx context.Context, payorID, claimID string, in DecisionInput, reviewerID string) (*Claim, error) {
	if in.Decision != StatusApproved && in.Decision != StatusRejected && in.Decision != StatusPartiallyApproved {
		return nil, errs.E(errs.KindInvalidInput,
			"Invalid decision. Must be approved, rejected, or partially_approved")
	}

	c, err := s.claims.GetByClaimID(ctx, payorID, claimID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	decision := Decision{
		Status:         in.Decision,
		ApprovedAmount: in.ApprovedAmount,
		ReasonCode:     in.ReasonCode,
		Notes:          in.Notes,
		ReviewerID:     reviewerID,
		DecisionDate:   now,
	}
	entry := TimelineEntry{
		Timestamp:  now,
		Action:     "Decision: " + in.Decision,
		Notes:      in.Notes,
		ReviewerID: reviewerID,
		Automated:  false,
	}

	oldStatus := c.Status
	for attempt := 0; ; attempt++ {
		rows, err := s.claims.ApplyDecision(ctx, payorID, claimID, oldStatus, decision, entry)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, err, "apply decision")
		}
		if rows > 0 {
			break
		}

		// Lost race: re-read once to distinguish a concurrent decision
		// from a stale status view.
		fresh, err := s.claims.GetByClaimID(ctx, payorID, claimID)
		if err != nil {
			return nil, err
		}
		if fresh.Decision != nil || attempt > 0 {
			return nil, errs.E(errs.KindUpdateConflict,
				"claim %s was decided concurrently", claimID)
		}
		oldStatus = fresh.Status
	}

	auditEntry := &AuditEntry{
		Timestamp:  now,
		ClaimID:    claimID,
		PayorID:    payorID,
		Action:     "claim_decision",
		ReviewerID: reviewerID,
		OldStatus:  oldStatus,
		NewStatus:  in.Decision,
		Detail:     decision,
	}
	if err := s.audit.Insert(ctx, auditEntry); err != nil {
		s.logger.Error().Err(err).
			Str("claim_id", claimID).
			Str("payor_id", payorID).
			Msg("audit log insert failed")
	}

	c.Status = in.Decision
	c.Decision = &decision
	c.Timeline = append(c.Timeline, entry)
	c.LastUpdated = now

	s.logger.Info().
		Str("claim_id", claimID).
		Str("payor_id", payorID).
		Str("old_status", oldStatus).
		Str("new_status", in.Decision).
		Str("reviewer_id", reviewerID).
		Msg("claim decision processed")

	s.dispatch(ctx, c, notification.EventClaimDecision, in.ApprovedAmount)
	return c, nil
}

// AuditTrail returns the immutable audit log for a claim.
func (s *Service) AuditTrail(ctx context.Context, payorID, claimID string) ([]*AuditEntry, error) {
	return s.audit.ListByClaim(ctx, payorID, claimID)
}

func (s *Service) dispatch(ctx context.Context, c *Claim, eventType string, approvedAmount float64) {
	s.notifier.DispatchClaimEvent(context.WithoutCancel(ctx), notification.ClaimEvent{
		Type:           eventType,
		ClaimID:        c.ClaimID,
		PayorID:        c.PayorID,
		Status:         c.Status,
		Amount:         c.Amount,
		ApprovedAmount: approvedAmount,
		PatientName:    c.PatientName,
		PatientPhone:   c.PatientPhone,
		PatientEmail:   c.PatientEmail,
		ProviderID:     c.ProviderID,
		ProviderName:   c.ProviderName,
		ProviderEmail:  c.ProviderEmail,
	})
}
