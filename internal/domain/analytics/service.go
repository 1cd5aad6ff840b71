package analytics

import (
	"context"
	"math"

	"github.com/rs/zerolog"
)

type Service struct {
	repo    Repository
	members MemberCounter
	logger  zerolog.Logger
}

func NewService(repo Repository, members MemberCounter, logger zerolog.Logger) *Service {
	return &Service{repo: repo, members: members, logger: logger}
}

// Metrics aggregates the dashboard numbers for one payor. The approval rate
// denominator counts only processed claims; with none processed the rate is
// exactly zero rather than a division error.
func (s *Service) Metrics(ctx context.Context, payorID string) (Metrics, error) {
	t, err := s.repo.ClaimTotals(ctx, payorID)
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{
		TotalClaims:             t.Total,
		PendingClaims:           t.Pending,
		ApprovedClaims:          t.Approved,
		RejectedClaims:          t.Rejected,
		PartiallyApprovedClaims: t.PartiallyApproved,
		UnderReviewClaims:       t.UnderReview,
		TotalAmount:             t.AmountSum,
		PreAuthPending:          t.PreAuthPending,
		AutoApprovedCount:       t.AutoApproved,
		ManualReviewCount:       t.Total - t.AutoApproved,
	}

	processed := t.Approved + t.Rejected + t.PartiallyApproved
	if processed > 0 {
		m.ApprovalRate = math.Round(float64(t.Approved)/float64(processed)*1000) / 10
	}
	if t.Total > 0 {
		m.AverageClaimAmount = math.Round(t.AmountSum/float64(t.Total)*100) / 100
	}

	active, err := s.members.CountActive(ctx, payorID)
	if err != nil {
		// Membership counts are decoration on the dashboard; a failure
		// here should not blank out the claim metrics.
		s.logger.Warn().Err(err).Str("payor_id", payorID).Msg("active member count unavailable")
	} else {
		m.ActiveMembers = active
	}
	return m, nil
}

func (s *Service) ClaimsByStatus(ctx context.Context, payorID string) ([]StatusCount, error) {
	return s.repo.ClaimsByStatus(ctx, payorID)
}

func (s *Service) RecentActivity(ctx context.Context, payorID string, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.RecentActivity(ctx, payorID, limit)
}
