// Package claim implements claim intake, adjudication and decision
// processing.
package claim

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Claim statuses.
const (
	StatusPending           = "pending"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusPartiallyApproved = "partially_approved"
	StatusUnderReview       = "under_review"
)

// Pre-authorization statuses.
const (
	PreAuthPending      = "pending"
	PreAuthApproved     = "approved"
	PreAuthManualReview = "manual_review"
)

// Amount is a currency value that accepts both JSON numbers and strings
// like "$1,200.50" on input.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a number or string")
	}
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "$", ""), ",", ""))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unparsable amount %q", s)
	}
	*a = Amount(n)
	return nil
}

// TimelineEntry is one immutable event in a claim's history.
type TimelineEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Notes      string    `json:"notes"`
	ReviewerID string    `json:"reviewer_id,omitempty"`
	Automated  bool      `json:"automated"`
}

// Decision is the payor's final disposition of a claim.
type Decision struct {
	Status         string    `json:"status"`
	ApprovedAmount float64   `json:"approved_amount"`
	ReasonCode     string    `json:"reason_code,omitempty"`
	Notes          string    `json:"notes"`
	ReviewerID     string    `json:"reviewer_id"`
	DecisionDate   time.Time `json:"decision_date"`
}

type Claim struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	ClaimID              string          `db:"claim_id" json:"claim_id"`
	PayorID              string          `db:"payor_id" json:"payor_id"`
	PatientName          string          `db:"patient_name" json:"patient_name"`
	PatientID            string          `db:"patient_id" json:"patient_id"`
	PatientPhone         string          `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientEmail         string          `db:"patient_email" json:"patient_email,omitempty"`
	InsuranceID          string          `db:"insurance_id" json:"insurance_id"`
	MemberID             string          `db:"member_id" json:"member_id,omitempty"`
	ProviderID           string          `db:"provider_id" json:"provider_id"`
	ProviderName         string          `db:"provider_name" json:"provider_name"`
	ProviderEmail        string          `db:"provider_email" json:"provider_email,omitempty"`
	DiagnosisCode        string          `db:"diagnosis_code" json:"diagnosis_code"`
	DiagnosisDescription string          `db:"diagnosis_description" json:"diagnosis_description,omitempty"`
	Emergency            bool            `db:"emergency" json:"emergency"`
	ProcedureCode        string          `db:"procedure_code" json:"procedure_code,omitempty"`
	ProcedureDescription string          `db:"procedure_description" json:"procedure_description,omitempty"`
	TreatmentType        string          `db:"treatment_type" json:"treatment_type,omitempty"`
	TreatmentUrgency     string          `db:"treatment_urgency" json:"treatment_urgency"`
	Amount               float64         `db:"amount" json:"amount"`
	DateOfService        string          `db:"date_of_service" json:"date_of_service"`
	Status               string          `db:"status" json:"status"`
	Priority             string          `db:"priority" json:"priority"`
	Notes                string          `db:"notes" json:"notes,omitempty"`
	CoverageValidated    bool            `db:"coverage_validated" json:"coverage_validated"`
	CoverageMessage      string          `db:"coverage_message" json:"coverage_message,omitempty"`
	AutoApproved         bool            `db:"auto_approved" json:"auto_approved"`
	ReasonForReview      string          `db:"reason_for_review" json:"reason_for_review,omitempty"`
	PreAuthStatus        string          `db:"preauth_status" json:"preauth_status"`
	PreAuthNotes         string          `db:"preauth_notes" json:"preauth_notes,omitempty"`
	PreAuthUpdated       *time.Time      `db:"preauth_updated" json:"preauth_updated,omitempty"`
	Timeline             []TimelineEntry `db:"timeline" json:"timeline"`
	Decision             *Decision       `db:"decision" json:"decision,omitempty"`
	SubmittedDate        time.Time       `db:"submitted_date" json:"submitted_date"`
	LastUpdated          time.Time       `db:"last_updated" json:"last_updated"`
}

// SubmitRequest is the intake payload accepted from providers.
type SubmitRequest struct {
	PatientName          string `json:"patient_name"`
	PatientID            string `json:"patient_id"`
	PatientPhone         string `json:"patient_phone"`
	PatientEmail         string `json:"patient_email"`
	InsuranceID          string `json:"insurance_id"`
	DiagnosisCode        string `json:"diagnosis_code"`
	DiagnosisDescription string `json:"diagnosis_description"`
	Emergency            bool   `json:"emergency"`
	ProcedureCode        string `json:"procedure_code"`
	ProcedureDescription string `json:"procedure_description"`
	TreatmentType        string `json:"treatment_type"`
	TreatmentUrgency     string `json:"treatment_urgency"`
	Amount               Amount `json:"amount"`
	DateOfService        string `json:"date_of_service"`
	Priority             string `json:"priority"`
	Notes                string `json:"notes"`
	ProviderID           string `json:"provider_id"`
	ProviderName         string `json:"provider_name"`
	ProviderEmail        string `json:"provider_email"`
}

// SubmitResult is returned to the provider after intake.
type SubmitResult struct {
	Success               bool    `json:"success"`
	Message               string  `json:"message"`
	Claim                 *Claim  `json:"claim"`
	Status                string  `json:"status"`
	AutoApproved          bool    `json:"auto_approved"`
	ExpectedPayment       float64 `json:"expected_payment"`
	PatientResponsibility float64 `json:"patient_responsibility"`
}

// DecisionInput is the reviewer's decision payload.
type DecisionInput struct {
	Decision       string  `json:"decision"`
	ApprovedAmount float64 `json:"approved_amount"`
	ReasonCode     string  `json:"reason_code"`
	Notes          string  `json:"notes"`
}

// PreAuthResult is the outcome of a pre-authorization evaluation.
type PreAuthResult struct {
	ClaimID  string `json:"claim_id"`
	Approved bool   `json:"approved"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// AuditEntry is an immutable audit-log record, stored separately from the
// claim's own timeline.
type AuditEntry struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Timestamp  time.Time `db:"ts" json:"timestamp"`
	ClaimID    string    `db:"claim_id" json:"claim_id"`
	PayorID    string    `db:"payor_id" json:"payor_id"`
	Action     string    `db:"action" json:"action"`
	ReviewerID string    `db:"reviewer_id" json:"reviewer_id,omitempty"`
	OldStatus  string    `db:"old_status" json:"old_status"`
	NewStatus  string    `db:"new_status" json:"new_status"`
	Detail     Decision  `db:"detail" json:"detail"`
}

// ListFilter narrows claim listings.
type ListFilter struct {
	Status string
}

// NewClaimID builds a claim identifier of the form CLM-YYYYMMDD-XXXXXX,
// suffixed with the tail of the claim's internal UUID.
func NewClaimID(id uuid.UUID, now time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("CLM-%s-%s", now.UTC().Format("20060102"), hex[len(hex)-6:])
}
