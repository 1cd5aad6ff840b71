package policy

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, payorID string, p *Policy) (*Policy, error) {
	if p.PolicyID == "" {
		return nil, errs.E(errs.KindInvalidInput, "policy_id is required")
	}
	p.PayorID = payorID
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create policy")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, payorID, policyID string) (*Policy, error) {
	return s.repo.GetByPolicyID(ctx, payorID, policyID)
}

func (s *Service) List(ctx context.Context, payorID string, limit, offset int) ([]*Policy, int, error) {
	return s.repo.List(ctx, payorID, limit, offset)
}

func (s *Service) Update(ctx context.Context, payorID string, p *Policy) error {
	return s.repo.Update(ctx, payorID, p)
}

// CheckCoverage validates a diagnosis and/or procedure code against a policy.
// Missing and inactive policies fail before any code is examined. For each
// supplied code an exclusion match wins over any inclusion, and an empty
// covered list imposes no restriction. Diagnosis and procedure are checked
// independently; the first failure is reported.
func (s *Service) CheckCoverage(ctx context.Context, payorID, policyID, diagnosisCode, procedureCode string) (CoverageResult, error) {
	result := CoverageResult{PolicyID: policyID}

	p, err := s.repo.GetByPolicyID(ctx, payorID, policyID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			result.Reason = "Policy not found"
			return result, nil
		}
		return result, err
	}

	if !p.IsActive {
		result.Reason = "Policy is inactive"
		return result, nil
	}

	if diagnosisCode != "" {
		if slices.Contains(p.ExcludedDiagnoses, diagnosisCode) {
			result.Reason = "Diagnosis " + diagnosisCode + " is explicitly excluded"
			return result, nil
		}
		if len(p.CoveredDiagnoses) > 0 && !slices.Contains(p.CoveredDiagnoses, diagnosisCode) {
			result.Reason = "Diagnosis " + diagnosisCode + " not covered under this policy"
			return result, nil
		}
	}

	if procedureCode != "" {
		if slices.Contains(p.ExcludedProcedures, procedureCode) {
			result.Reason = "Procedure " + procedureCode + " is explicitly excluded"
			return result, nil
		}
		if len(p.CoveredProcedures) > 0 && !slices.Contains(p.CoveredProcedures, procedureCode) {
			result.Reason = "Procedure " + procedureCode + " not covered under this policy"
			return result, nil
		}
	}

	result.Covered = true
	result.Reason = "Coverage validated successfully"
	return result, nil
}

// GetLimits returns the monetary limits for a policy.
func (s *Service) GetLimits(ctx context.Context, payorID, policyID string) (Limits, error) {
	p, err := s.repo.GetByPolicyID(ctx, payorID, policyID)
	if err != nil {
		return Limits{}, err
	}
	return Limits{
		AnnualLimit:      p.AnnualLimit,
		PerIncidentLimit: p.PerIncidentLimit,
		Deductible:       p.Deductible,
		CopayPercentage:  p.CopayPercentage,
	}, nil
}
