package preauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateInput carries a new pre-authorization request.
type CreateInput struct {
	ClaimID      string `json:"claim_id"`
	MemberName   string `json:"member_name"`
	Procedure    string `json:"procedure"`
	ProviderName string `json:"provider_name"`
	Urgency      string `json:"urgency"`
	Notes        string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, payorID string, in CreateInput) (*PreAuthorization, error) {
	if in.ClaimID == "" {
		return nil, errs.E(errs.KindInvalidInput, "claim_id is required")
	}

	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	p := &PreAuthorization{
		ID:           id,
		PreAuthID:    fmt.Sprintf("PRE-%s-%s", s.now().UTC().Format("20060102"), hex[len(hex)-6:]),
		ClaimID:      in.ClaimID,
		PayorID:      payorID,
		MemberName:   in.MemberName,
		Procedure:    in.Procedure,
		ProviderName: in.ProviderName,
		Urgency:      in.Urgency,
		Status:       StatusPending,
		Notes:        in.Notes,
	}
	if p.Urgency == "" {
		p.Urgency = "routine"
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create pre-authorization")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, payorID, preAuthID string) (*PreAuthorization, error) {
	return s.repo.GetByPreAuthID(ctx, payorID, preAuthID)
}

func (s *Service) GetByClaim(ctx context.Context, payorID, claimID string) (*PreAuthorization, error) {
	return s.repo.GetByClaimID(ctx, payorID, claimID)
}

func (s *Service) List(ctx context.Context, payorID, status string, limit, offset int) ([]*PreAuthorization, int, error) {
	return s.repo.List(ctx, payorID, status, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, payorID, preAuthID, status, notes string) error {
	if status != StatusPending && status != StatusApproved && status != StatusDenied {
		return errs.E(errs.KindInvalidInput, "status must be pending, approved or denied")
	}
	rows, err := s.repo.UpdateStatus(ctx, payorID, preAuthID, status, notes)
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "update pre-authorization")
	}
	if rows == 0 {
		return errs.E(errs.KindNotFound, "pre-authorization not found")
	}
	s.logger.Info().
		Str("preauth_id", preAuthID).
		Str("payor_id", payorID).
		Str("status", status).
		Msg("pre-authorization status updated")
	return nil
}
