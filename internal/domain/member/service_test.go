package member

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type mockRepo struct {
	items map[string]*Member // keyed payorID + "/" + memberID
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*Member)}
}

func (m *mockRepo) Create(_ context.Context, mm *Member) error {
	m.items[mm.PayorID+"/"+mm.MemberID] = mm
	return nil
}

func (m *mockRepo) GetByMemberID(_ context.Context, payorID, memberID string) (*Member, error) {
	mm, ok := m.items[payorID+"/"+memberID]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "member not found")
	}
	return mm, nil
}

func (m *mockRepo) GetByInsuranceID(_ context.Context, payorID, insuranceID string) (*Member, error) {
	for _, mm := range m.items {
		if mm.PayorID == payorID && mm.InsuranceID == insuranceID {
			return mm, nil
		}
	}
	return nil, errs.E(errs.KindNotFound, "member not found")
}

func (m *mockRepo) List(_ context.Context, payorID string, limit, offset int) ([]*Member, int, error) {
	var out []*Member
	for _, mm := range m.items {
		if mm.PayorID == payorID {
			out = append(out, mm)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, payorID string, mm *Member) error {
	key := payorID + "/" + mm.MemberID
	if _, ok := m.items[key]; !ok {
		return errs.E(errs.KindNotFound, "member not found")
	}
	m.items[key] = mm
	return nil
}

func (m *mockRepo) CountActive(_ context.Context, payorID string) (int, error) {
	n := 0
	for _, mm := range m.items {
		if mm.PayorID == payorID && mm.IsActive && !mm.IsSuspended {
			n++
		}
	}
	return n, nil
}

func newTestService(repo *mockRepo) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func eligibleMember(payorID, memberID string) *Member {
	return &Member{
		PayorID:       payorID,
		MemberID:      memberID,
		Name:          "John Smith",
		InsuranceID:   "INS-12345",
		PolicyNumber:  "POL-100",
		CoverageStart: datePtr(2024, 1, 1),
		CoverageEnd:   datePtr(2024, 12, 31),
		PremiumStatus: PremiumPaid,
		IsActive:      true,
	}
}

func TestVerifyEligibility(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Member)
		wantOK     bool
		wantReason string
	}{
		{
			name:       "eligible member",
			mutate:     func(m *Member) {},
			wantOK:     true,
			wantReason: "Member is eligible for coverage",
		},
		{
			name:       "inactive",
			mutate:     func(m *Member) { m.IsActive = false },
			wantReason: "Member account is inactive",
		},
		{
			name:       "coverage not started",
			mutate:     func(m *Member) { m.CoverageStart = datePtr(2025, 1, 1) },
			wantReason: "Coverage not yet active",
		},
		{
			name:       "coverage expired",
			mutate:     func(m *Member) { m.CoverageEnd = datePtr(2024, 3, 1) },
			wantReason: "Coverage has expired",
		},
		{
			name:       "premium unpaid",
			mutate:     func(m *Member) { m.PremiumStatus = PremiumUnpaid },
			wantReason: "Premium payment outstanding",
		},
		{
			name:       "suspended",
			mutate:     func(m *Member) { m.IsSuspended = true },
			wantReason: "Membership is temporarily suspended",
		},
		{
			name:   "nil coverage dates allowed",
			mutate: func(m *Member) { m.CoverageStart = nil; m.CoverageEnd = nil },
			wantOK: true, wantReason: "Member is eligible for coverage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := newTestService(repo)
			m := eligibleMember("PAY001", "MEM-001")
			tt.mutate(m)
			repo.items["PAY001/MEM-001"] = m

			result, err := svc.VerifyEligibility(context.Background(), "PAY001", "MEM-001")
			if err != nil {
				t.Fatalf("VerifyEligibility() error: %v", err)
			}
			if result.Eligible != tt.wantOK {
				t.Errorf("Eligible = %v, want %v", result.Eligible, tt.wantOK)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

// Checks run in a fixed order: an inactive member with expired coverage
// reports the inactive reason, not the expiry.
func TestVerifyEligibilityOrderOfChecks(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	m := eligibleMember("PAY001", "MEM-002")
	m.IsActive = false
	m.CoverageEnd = datePtr(2024, 1, 31)
	m.PremiumStatus = PremiumUnpaid
	repo.items["PAY001/MEM-002"] = m

	result, err := svc.VerifyEligibility(context.Background(), "PAY001", "MEM-002")
	if err != nil {
		t.Fatal(err)
	}
	if result.Reason != "Member account is inactive" {
		t.Errorf("Reason = %q, want inactive reason first", result.Reason)
	}
}

func TestVerifyEligibilityUnknownMember(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	result, err := svc.VerifyEligibility(context.Background(), "PAY001", "MEM-404")
	if err != nil {
		t.Fatalf("VerifyEligibility() error: %v", err)
	}
	if result.Eligible {
		t.Error("unknown member must not be eligible")
	}
	if result.Reason != "Member not found in our records" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

// A member belonging to another payor is invisible; the check reports not
// found rather than leaking cross-tenant data.
func TestVerifyEligibilityScopedToPayor(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	repo.items["PAY002/MEM-001"] = eligibleMember("PAY002", "MEM-001")

	result, err := svc.VerifyEligibility(context.Background(), "PAY001", "MEM-001")
	if err != nil {
		t.Fatal(err)
	}
	if result.Eligible || result.Reason != "Member not found in our records" {
		t.Errorf("cross-tenant lookup: eligible=%v reason=%q", result.Eligible, result.Reason)
	}
}

func TestCreateDefaultsPremiumStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	m, err := svc.Create(context.Background(), "PAY001", &Member{MemberID: "MEM-010", Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if m.PremiumStatus != PremiumPaid {
		t.Errorf("PremiumStatus = %q, want %q", m.PremiumStatus, PremiumPaid)
	}
	if m.PayorID != "PAY001" {
		t.Errorf("PayorID = %q, want caller's payor", m.PayorID)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	_, err := svc.Create(context.Background(), "PAY001", &Member{Name: "No ID"})
	if errs.KindOf(err) != errs.KindInvalidInput {
		t.Errorf("error kind = %v, want invalid_input", errs.KindOf(err))
	}
}
