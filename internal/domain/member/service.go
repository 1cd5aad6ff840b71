package member

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

const (
	PremiumPaid   = "paid"
	PremiumUnpaid = "unpaid"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, payorID string, m *Member) (*Member, error) {
	if m.MemberID == "" || m.Name == "" {
		return nil, errs.E(errs.KindInvalidInput, "member_id and name are required")
	}
	m.PayorID = payorID
	if m.PremiumStatus == "" {
		m.PremiumStatus = PremiumPaid
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create member")
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, payorID, memberID string) (*Member, error) {
	return s.repo.GetByMemberID(ctx, payorID, memberID)
}

func (s *Service) GetByInsuranceID(ctx context.Context, payorID, insuranceID string) (*Member, error) {
	return s.repo.GetByInsuranceID(ctx, payorID, insuranceID)
}

func (s *Service) List(ctx context.Context, payorID string, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, payorID, limit, offset)
}

func (s *Service) Update(ctx context.Context, payorID string, m *Member) error {
	return s.repo.Update(ctx, payorID, m)
}

// VerifyEligibility runs the eligibility checks in a fixed order and reports
// the first failing condition. The result is computed fresh on every call.
//
// Order: existence, active flag, coverage start, coverage end, premium
// status, suspension.
func (s *Service) VerifyEligibility(ctx context.Context, payorID, memberID string) (Eligibility, error) {
	result := Eligibility{MemberID: memberID, CheckedAt: s.now().UTC()}

	m, err := s.repo.GetByMemberID(ctx, payorID, memberID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			result.Reason = "Member not found in our records"
			return result, nil
		}
		return result, err
	}

	now := result.CheckedAt
	switch {
	case !m.IsActive:
		result.Reason = "Member account is inactive"
	case m.CoverageStart != nil && now.Before(*m.CoverageStart):
		result.Reason = "Coverage not yet active"
	case m.CoverageEnd != nil && now.After(*m.CoverageEnd):
		result.Reason = "Coverage has expired"
	case m.PremiumStatus == PremiumUnpaid:
		result.Reason = "Premium payment outstanding"
	case m.IsSuspended:
		result.Reason = "Membership is temporarily suspended"
	default:
		result.Eligible = true
		result.Reason = "Member is eligible for coverage"
	}

	s.logger.Debug().
		Str("payor_id", payorID).
		Str("member_id", memberID).
		Bool("eligible", result.Eligible).
		Str("reason", result.Reason).
		Msg("eligibility checked")
	return result, nil
}

func (s *Service) CountActive(ctx context.Context, payorID string) (int, error) {
	return s.repo.CountActive(ctx, payorID)
}
