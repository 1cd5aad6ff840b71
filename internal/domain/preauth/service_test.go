package preauth

import (
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/errs"
)

type mockRepo struct {
	items map[string]*PreAuthorization // keyed payorID + "/" + preAuthID
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*PreAuthorization)}
}

func (m *mockRepo) Create(_ context.Context, p *PreAuthorization) error {
	m.items[p.PayorID+"/"+p.PreAuthID] = p
	return nil
}

func (m *mockRepo) GetByPreAuthID(_ context.Context, payorID, preAuthID string) (*PreAuthorization, error) {
	p, ok := m.items[payorID+"/"+preAuthID]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "pre-authorization not found")
	}
	return p, nil
}

func (m *mockRepo) GetByClaimID(_ context.Context, payorID, claimID string) (*PreAuthorization, error) {
	for _, p := range m.items {
		if p.PayorID == payorID && p.ClaimID == claimID {
			return p, nil
		}
	}
	return nil, errs.E(errs.KindNotFound, "pre-authorization not found")
}

func (m *mockRepo) List(_ context.Context, payorID, status string, limit, offset int) ([]*PreAuthorization, int, error) {
	var out []*PreAuthorization
	for _, p := range m.items {
		if p.PayorID == payorID && (status == "" || p.Status == status) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, payorID, preAuthID, status, notes string) (int64, error) {
	p, ok := m.items[payorID+"/"+preAuthID]
	if !ok {
		return 0, nil
	}
	p.Status = status
	p.Notes = notes
	return 1, nil
}

func TestCreateDefaultsToPending(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), "PAY001", CreateInput{
		ClaimID: "CLM-20240615-abc123", MemberName: "John Doe", Procedure: "MRI Scan",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Status != StatusPending {
		t.Errorf("Status = %q, want pending", p.Status)
	}
	if p.Urgency != "routine" {
		t.Errorf("Urgency = %q, want routine default", p.Urgency)
	}
	if matched, _ := regexp.MatchString(`^PRE-\d{8}-[0-9a-f]{6}$`, p.PreAuthID); !matched {
		t.Errorf("PreAuthID = %q", p.PreAuthID)
	}

	byClaim, err := svc.GetByClaim(context.Background(), "PAY001", "CLM-20240615-abc123")
	if err != nil {
		t.Fatalf("GetByClaim() error: %v", err)
	}
	if byClaim.PreAuthID != p.PreAuthID {
		t.Errorf("GetByClaim returned %q, want %q", byClaim.PreAuthID, p.PreAuthID)
	}
}

func TestCreateRequiresClaimID(t *testing.T) {
	svc := NewService(newMockRepo(), zerolog.Nop())
	_, err := svc.Create(context.Background(), "PAY001", CreateInput{MemberName: "John Doe"})
	if errs.KindOf(err) != errs.KindInvalidInput {
		t.Errorf("error kind = %v, want invalid_input", errs.KindOf(err))
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	p, err := svc.Create(context.Background(), "PAY001", CreateInput{ClaimID: "CLM-1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateStatus(context.Background(), "PAY001", p.PreAuthID, StatusApproved, "ok"); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if repo.items["PAY001/"+p.PreAuthID].Status != StatusApproved {
		t.Error("status not persisted")
	}

	if err := svc.UpdateStatus(context.Background(), "PAY001", p.PreAuthID, "maybe", ""); errs.KindOf(err) != errs.KindInvalidInput {
		t.Errorf("error kind = %v, want invalid_input", errs.KindOf(err))
	}
	if err := svc.UpdateStatus(context.Background(), "PAY001", "PRE-404", StatusDenied, ""); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("error kind = %v, want not_found", errs.KindOf(err))
	}
}

// Pre-authorizations are invisible across payors.
func TestGetScopedToPayor(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop())
	p, err := svc.Create(context.Background(), "PAY002", CreateInput{ClaimID: "CLM-1"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), "PAY001", p.PreAuthID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("error kind = %v, want not_found", errs.KindOf(err))
	}
}
