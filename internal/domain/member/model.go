// Package member holds covered members and the eligibility checker.
package member

import (
	"time"

	"github.com/google/uuid"
)

// Member is a covered individual, owned by exactly one payor.
type Member struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	MemberID      string     `db:"member_id" json:"member_id"`
	PayorID       string     `db:"payor_id" json:"payor_id"`
	Name          string     `db:"name" json:"name"`
	InsuranceID   string     `db:"insurance_id" json:"insurance_id"`
	PolicyNumber  string     `db:"policy_number" json:"policy_number"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone         string     `db:"phone" json:"phone,omitempty"`
	Email         string     `db:"email" json:"email,omitempty"`
	CoverageStart *time.Time `db:"coverage_start_date" json:"coverage_start_date,omitempty"`
	CoverageEnd   *time.Time `db:"coverage_end_date" json:"coverage_end_date,omitempty"`
	PremiumStatus string     `db:"premium_status" json:"premium_status"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	IsSuspended   bool       `db:"is_suspended" json:"is_suspended"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Eligibility is the outcome of an eligibility check. Reason carries the
// first failing condition when Eligible is false.
type Eligibility struct {
	MemberID  string    `json:"member_id"`
	Eligible  bool      `json:"eligible"`
	Reason    string    `json:"reason"`
	CheckedAt time.Time `json:"checked_at"`
}
