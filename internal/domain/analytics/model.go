// Package analytics computes read-side claim metrics per payor.
package analytics

// Metrics is the payor dashboard summary. ApprovalRate is a percentage over
// processed claims only (approved, rejected, partially approved).
type Metrics struct {
	TotalClaims             int     `json:"total_claims"`
	PendingClaims           int     `json:"pending_claims"`
	ApprovedClaims          int     `json:"approved_claims"`
	RejectedClaims          int     `json:"rejected_claims"`
	PartiallyApprovedClaims int     `json:"partially_approved_claims"`
	UnderReviewClaims       int     `json:"under_review_claims"`
	ApprovalRate            float64 `json:"approval_rate"`
	TotalAmount             float64 `json:"total_amount"`
	AverageClaimAmount      float64 `json:"average_claim_amount"`
	PreAuthPending          int     `json:"preauth_pending"`
	ActiveMembers           int     `json:"active_members"`
	AutoApprovedCount       int     `json:"auto_approved_count"`
	ManualReviewCount       int     `json:"manual_review_count"`
}

// StatusCount is one row of the claims-by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ActivityEntry is a recent claim event for the dashboard feed.
type ActivityEntry struct {
	ClaimID     string  `json:"claim_id"`
	PatientName string  `json:"patient_name"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	LastUpdated string  `json:"last_updated"`
}
