package analytics

import "context"

// Totals holds the raw aggregates the service turns into Metrics.
type Totals struct {
	Total             int
	Pending           int
	Approved          int
	Rejected          int
	PartiallyApproved int
	UnderReview       int
	AmountSum         float64
	PreAuthPending    int
	AutoApproved      int
}

type Repository interface {
	ClaimTotals(ctx context.Context, payorID string) (Totals, error)
	ClaimsByStatus(ctx context.Context, payorID string) ([]StatusCount, error)
	RecentActivity(ctx context.Context, payorID string, limit int) ([]ActivityEntry, error)
}

// MemberCounter reports active membership; satisfied by the member service.
type MemberCounter interface {
	CountActive(ctx context.Context, payorID string) (int, error)
}
