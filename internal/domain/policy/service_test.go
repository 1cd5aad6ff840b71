package policy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type mockRepo struct {
	items map[string]*Policy // keyed payorID + "/" + policyID
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*Policy)}
}

func (m *mockRepo) Create(_ context.Context, p *Policy) error {
	m.items[p.PayorID+"/"+p.PolicyID] = p
	return nil
}

func (m *mockRepo) GetByPolicyID(_ context.Context, payorID, policyID string) (*Policy, error) {
	p, ok := m.items[payorID+"/"+policyID]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "policy not found")
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context, payorID string, limit, offset int) ([]*Policy, int, error) {
	var out []*Policy
	for _, p := range m.items {
		if p.PayorID == payorID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, payorID string, p *Policy) error {
	key := payorID + "/" + p.PolicyID
	if _, ok := m.items[key]; !ok {
		return errs.E(errs.KindNotFound, "policy not found")
	}
	m.items[key] = p
	return nil
}

func seedPolicy(repo *mockRepo, p *Policy) {
	if p.PayorID == "" {
		p.PayorID = "PAY001"
	}
	repo.items[p.PayorID+"/"+p.PolicyID] = p
}

func TestCheckCoverage(t *testing.T) {
	tests := []struct {
		name       string
		policy     *Policy
		diagnosis  string
		procedure  string
		wantOK     bool
		wantReason string
	}{
		{
			name:       "inactive policy fails before codes",
			policy:     &Policy{PolicyID: "POL-1", IsActive: false, CoveredDiagnoses: []string{"J20.9"}},
			diagnosis:  "J20.9",
			wantReason: "Policy is inactive",
		},
		{
			name:       "exclusion wins over inclusion",
			policy:     &Policy{PolicyID: "POL-1", IsActive: true, CoveredDiagnoses: []string{"J20.9"}, ExcludedDiagnoses: []string{"J20.9"}},
			diagnosis:  "J20.9",
			wantReason: "Diagnosis J20.9 is explicitly excluded",
		},
		{
			name:      "empty covered list allows any code",
			policy:    &Policy{PolicyID: "POL-1", IsActive: true},
			diagnosis: "Z99.9", procedure: "99999",
			wantOK: true, wantReason: "Coverage validated successfully",
		},
		{
			name:       "diagnosis not in non-empty covered list",
			policy:     &Policy{PolicyID: "POL-1", IsActive: true, CoveredDiagnoses: []string{"J20.9", "M54.5"}},
			diagnosis:  "E11.9",
			wantReason: "Diagnosis E11.9 not covered under this policy",
		},
		{
			name:      "covered diagnosis and procedure",
			policy:    &Policy{PolicyID: "POL-1", IsActive: true, CoveredDiagnoses: []string{"J20.9"}, CoveredProcedures: []string{"99213"}},
			diagnosis: "J20.9", procedure: "99213",
			wantOK: true, wantReason: "Coverage validated successfully",
		},
		{
			name:       "excluded procedure",
			policy:     &Policy{PolicyID: "POL-1", IsActive: true, ExcludedProcedures: []string{"27447"}},
			procedure:  "27447",
			wantReason: "Procedure 27447 is explicitly excluded",
		},
		{
			name:      "diagnosis passes then procedure fails",
			policy:    &Policy{PolicyID: "POL-1", IsActive: true, CoveredDiagnoses: []string{"J20.9"}, CoveredProcedures: []string{"99213"}},
			diagnosis: "J20.9", procedure: "27447",
			wantReason: "Procedure 27447 not covered under this policy",
		},
		{
			name:   "no codes supplied validates trivially",
			policy: &Policy{PolicyID: "POL-1", IsActive: true, CoveredDiagnoses: []string{"J20.9"}},
			wantOK: true, wantReason: "Coverage validated successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := NewService(repo, zerolog.Nop())
			seedPolicy(repo, tt.policy)

			result, err := svc.CheckCoverage(context.Background(), "PAY001", "POL-1", tt.diagnosis, tt.procedure)
			if err != nil {
				t.Fatalf("CheckCoverage() error: %v", err)
			}
			if result.Covered != tt.wantOK {
				t.Errorf("Covered = %v, want %v", result.Covered, tt.wantOK)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheckCoverageUnknownPolicy(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	result, err := svc.CheckCoverage(context.Background(), "PAY001", "POL-404", "J20.9", "")
	if err != nil {
		t.Fatalf("CheckCoverage() error: %v", err)
	}
	if result.Covered || result.Reason != "Policy not found" {
		t.Errorf("covered=%v reason=%q", result.Covered, result.Reason)
	}
}

// A policy owned by another payor is not visible to the caller.
func TestCheckCoverageScopedToPayor(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	seedPolicy(repo, &Policy{PolicyID: "POL-1", PayorID: "PAY002", IsActive: true})

	result, err := svc.CheckCoverage(context.Background(), "PAY001", "POL-1", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Covered || result.Reason != "Policy not found" {
		t.Errorf("cross-tenant lookup: covered=%v reason=%q", result.Covered, result.Reason)
	}
}

func TestGetLimits(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	seedPolicy(repo, &Policy{
		PolicyID: "POL-1", IsActive: true,
		AnnualLimit: 100000, PerIncidentLimit: 25000, Deductible: 1500, CopayPercentage: 20,
	})

	limits, err := svc.GetLimits(context.Background(), "PAY001", "POL-1")
	if err != nil {
		t.Fatalf("GetLimits() error: %v", err)
	}
	want := Limits{AnnualLimit: 100000, PerIncidentLimit: 25000, Deductible: 1500, CopayPercentage: 20}
	if limits != want {
		t.Errorf("Limits = %+v, want %+v", limits, want)
	}

	if _, err := svc.GetLimits(context.Background(), "PAY001", "POL-404"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("error kind = %v, want not_found", errs.KindOf(err))
	}
}
