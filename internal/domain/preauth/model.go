// Package preauth manages pre-authorization requests as standalone records,
// linked to claims but with their own lifecycle.
package preauth

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

type PreAuthorization struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PreAuthID     string    `db:"preauth_id" json:"preauth_id"`
	ClaimID       string    `db:"claim_id" json:"claim_id"`
	PayorID       string    `db:"payor_id" json:"payor_id"`
	MemberName    string    `db:"member_name" json:"member_name"`
	Procedure     string    `db:"procedure_name" json:"procedure"`
	ProviderName  string    `db:"provider_name" json:"provider_name"`
	Urgency       string    `db:"urgency" json:"urgency"`
	Status        string    `db:"status" json:"status"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	RequestedDate time.Time `db:"requested_date" json:"requested_date"`
	LastUpdated   time.Time `db:"last_updated" json:"last_updated"`
}
