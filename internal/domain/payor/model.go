// Package payor holds the tenant root: insurance organizations, their
// adjudication settings, and the insurance→payor mappings used at claim
// intake. Every other entity in the system is owned by exactly one payor.
package payor

import (
	"time"

	"github.com/google/uuid"
)

// Settings drives all adjudication thresholds. Values are never hard-coded
// per claim; the engine reads the owning payor's settings on every pass.
type Settings struct {
	AutoPreauthEnabled      bool    `db:"auto_preauth_enabled" json:"auto_preauth_enabled"`
	AutoPreauthLimit        float64 `db:"auto_preauth_limit" json:"auto_preauth_limit"`
	RequireManualReviewOver float64 `db:"require_manual_review_over" json:"require_manual_review_over"`
	EmergencyAutoApprove    bool    `db:"emergency_auto_approve" json:"emergency_auto_approve"`
}

// DefaultSettings are applied at payor creation when no settings are given.
func DefaultSettings() Settings {
	return Settings{
		AutoPreauthEnabled:      true,
		AutoPreauthLimit:        500.0,
		RequireManualReviewOver: 2000.0,
		EmergencyAutoApprove:    true,
	}
}

// Payor is an insurance organization tenant.
type Payor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PayorID        string    `db:"payor_id" json:"payor_id"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Name           string    `db:"name" json:"name"`
	Organization   string    `db:"organization" json:"organization"`
	ContactPhone   string    `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactAddress string    `db:"contact_address" json:"contact_address,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	Settings       Settings  `json:"settings"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// InsuranceMapping resolves an external insurance identifier to the owning
// payor at claim-intake time. Many insurance IDs may map to one payor.
type InsuranceMapping struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InsuranceID string    `db:"insurance_id" json:"insurance_id"`
	PayorID     string    `db:"payor_id" json:"payor_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
