package claim

import "context"

// Repository persists claims. Every method takes the owning payor ID; the
// write methods are conditional updates that report how many rows matched so
// the service can detect lost races.
type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByClaimID(ctx context.Context, payorID, claimID string) (*Claim, error)
	List(ctx context.Context, payorID string, f ListFilter, limit, offset int) ([]*Claim, int, error)

	// ApplyPreAuth sets the pre-auth status and notes and appends one
	// timeline entry. Returns the number of rows updated.
	ApplyPreAuth(ctx context.Context, payorID, claimID, status, notes string, entry TimelineEntry) (int64, error)

	// ApplyDecision records the decision and new status, appending one
	// timeline entry, but only if the claim's current status still equals
	// expectedStatus. Returns the number of rows updated; zero means the
	// claim was missing or concurrently modified.
	ApplyDecision(ctx context.Context, payorID, claimID, expectedStatus string, d Decision, entry TimelineEntry) (int64, error)
}

// AuditRepository is the append-only audit log, separate from claim
// timelines. Entries are inserted and listed, never updated.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	ListByClaim(ctx context.Context, payorID, claimID string) ([]*AuditEntry, error)
}
