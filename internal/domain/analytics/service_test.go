package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	totals   Totals
	byStatus []StatusCount
}

func (m *mockRepo) ClaimTotals(_ context.Context, _ string) (Totals, error) {
	return m.totals, nil
}

func (m *mockRepo) ClaimsByStatus(_ context.Context, _ string) ([]StatusCount, error) {
	return m.byStatus, nil
}

func (m *mockRepo) RecentActivity(_ context.Context, _ string, limit int) ([]ActivityEntry, error) {
	out := make([]ActivityEntry, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, ActivityEntry{ClaimID: "CLM-x"})
	}
	return out, nil
}

type mockMembers struct {
	count int
	err   error
}

func (m *mockMembers) CountActive(_ context.Context, _ string) (int, error) {
	return m.count, m.err
}

func TestMetrics(t *testing.T) {
	repo := &mockRepo{totals: Totals{
		Total: 10, Pending: 2, Approved: 4, Rejected: 2, PartiallyApproved: 1, UnderReview: 1,
		AmountSum: 12345.55, PreAuthPending: 3, AutoApproved: 6,
	}}
	svc := NewService(repo, &mockMembers{count: 42}, zerolog.Nop())

	m, err := svc.Metrics(context.Background(), "PAY001")
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}

	// 4 approved of 7 processed.
	if m.ApprovalRate != 57.1 {
		t.Errorf("ApprovalRate = %v, want 57.1", m.ApprovalRate)
	}
	if m.AverageClaimAmount != 1234.56 {
		t.Errorf("AverageClaimAmount = %v, want 1234.56", m.AverageClaimAmount)
	}
	if m.ActiveMembers != 42 {
		t.Errorf("ActiveMembers = %v, want 42", m.ActiveMembers)
	}
	if m.ManualReviewCount != 4 {
		t.Errorf("ManualReviewCount = %v, want total minus auto-approved", m.ManualReviewCount)
	}
}

func TestMetricsZeroClaims(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockMembers{}, zerolog.Nop())

	m, err := svc.Metrics(context.Background(), "PAY001")
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	if m.ApprovalRate != 0 {
		t.Errorf("ApprovalRate = %v, want exactly 0 with no processed claims", m.ApprovalRate)
	}
	if m.AverageClaimAmount != 0 {
		t.Errorf("AverageClaimAmount = %v, want 0", m.AverageClaimAmount)
	}
}

// Only decided claims count toward the approval rate; pending and
// under-review claims are excluded from the denominator.
func TestApprovalRateIgnoresUnprocessed(t *testing.T) {
	repo := &mockRepo{totals: Totals{Total: 100, Pending: 96, Approved: 4}}
	svc := NewService(repo, &mockMembers{}, zerolog.Nop())

	m, err := svc.Metrics(context.Background(), "PAY001")
	if err != nil {
		t.Fatal(err)
	}
	if m.ApprovalRate != 100 {
		t.Errorf("ApprovalRate = %v, want 100", m.ApprovalRate)
	}
}

func TestMetricsSurvivesMemberCountFailure(t *testing.T) {
	repo := &mockRepo{totals: Totals{Total: 1, Approved: 1}}
	svc := NewService(repo, &mockMembers{err: errors.New("members table offline")}, zerolog.Nop())

	m, err := svc.Metrics(context.Background(), "PAY001")
	if err != nil {
		t.Fatalf("Metrics() must not fail on member count error: %v", err)
	}
	if m.ActiveMembers != 0 {
		t.Errorf("ActiveMembers = %v, want 0 fallback", m.ActiveMembers)
	}
	if m.TotalClaims != 1 {
		t.Error("claim metrics must survive member count failure")
	}
}

func TestRecentActivityLimitClamped(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockMembers{}, zerolog.Nop())

	activity, err := svc.RecentActivity(context.Background(), "PAY001", -5)
	if err != nil {
		t.Fatal(err)
	}
	if len(activity) != 20 {
		t.Errorf("len = %d, want default 20", len(activity))
	}

	activity, err = svc.RecentActivity(context.Background(), "PAY001", 5000)
	if err != nil {
		t.Fatal(err)
	}
	if len(activity) != 20 {
		t.Errorf("len = %d, want clamp to default", len(activity))
	}
}
