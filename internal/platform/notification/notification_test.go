package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decisionEvent() ClaimEvent {
	return ClaimEvent{
		Type:           EventClaimDecision,
		ClaimID:        "CLM-20240615-abc123",
		PayorID:        "PAY001",
		Status:         "approved",
		Amount:         1200,
		ApprovedAmount: 1000,
		PatientName:    "John Smith",
		PatientPhone:   "+15550001111",
		PatientEmail:   "john@test.com",
		ProviderEmail:  "provider@clinic.test",
	}
}

func newTestDispatcher(sender *MockSender) *Dispatcher {
	return NewDispatcher(sender, sender, NewMemoryStore(), zerolog.Nop())
}

func TestDispatchNotifiesAllRecipients(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	d.DispatchClaimEvent(context.Background(), decisionEvent())

	calls := sender.Calls()
	if len(calls) != 3 {
		t.Fatalf("calls = %d, want patient SMS + patient email + provider email", len(calls))
	}

	patientMsg := "Your claim CLM-20240615-abc123 has been approved for $1000.00"
	if calls[0].Channel != ChannelSMS || calls[0].Body != patientMsg {
		t.Errorf("patient SMS = %+v", calls[0])
	}
	if calls[1].Channel != ChannelEmail || calls[1].To != "john@test.com" {
		t.Errorf("patient email = %+v", calls[1])
	}
	if calls[2].To != "provider@clinic.test" || calls[2].Body != "Claim CLM-20240615-abc123 decision: approved" {
		t.Errorf("provider email = %+v", calls[2])
	}
}

func TestDispatchApprovedFallsBackToBilledAmount(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	ev := decisionEvent()
	ev.ApprovedAmount = 0
	ev.PatientPhone = ""
	ev.PatientEmail = "john@test.com"
	ev.ProviderEmail = ""
	d.DispatchClaimEvent(context.Background(), ev)

	calls := sender.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !strings.HasSuffix(calls[0].Body, "for $1200.00") {
		t.Errorf("body = %q, want billed amount fallback", calls[0].Body)
	}
}

func TestDispatchSkipsRecipientsWithoutContact(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	ev := decisionEvent()
	ev.PatientPhone = ""
	ev.PatientEmail = ""
	ev.ProviderEmail = ""
	d.DispatchClaimEvent(context.Background(), ev)

	if len(sender.Calls()) != 0 {
		t.Errorf("calls = %d, want 0", len(sender.Calls()))
	}
}

// A delivery failure is recorded and logged, never surfaced.
func TestDispatchSwallowsSendFailures(t *testing.T) {
	sender := &MockSender{ShouldFail: true, FailError: "smtp unreachable"}
	d := newTestDispatcher(sender)

	d.DispatchClaimEvent(context.Background(), decisionEvent())

	records, err := d.Records(context.Background(), "PAY001")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for _, r := range records {
		if r.Status != "failed" || r.Error != "smtp unreachable" {
			t.Errorf("record = %+v", r)
		}
	}
}

func TestRecordsScopedToPayor(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	d.DispatchClaimEvent(context.Background(), decisionEvent())

	got, err := d.Records(context.Background(), "PAY002")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("cross-payor records = %d, want 0", len(got))
	}
	got, err = d.Records(context.Background(), "PAY001")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("records = %d, want 3", len(got))
	}
}

func TestRecordsForClaimFiltered(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	first := decisionEvent()
	d.DispatchClaimEvent(context.Background(), first)

	second := decisionEvent()
	second.ClaimID = "CLM-20240615-def456"
	second.PatientPhone = ""
	second.ProviderEmail = ""
	d.DispatchClaimEvent(context.Background(), second)

	records, err := d.RecordsForClaim(context.Background(), "PAY001", second.ClaimID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want only the second claim's email", len(records))
	}
	if records[0].ClaimID != second.ClaimID {
		t.Errorf("ClaimID = %q, want %q", records[0].ClaimID, second.ClaimID)
	}

	records, err = d.RecordsForClaim(context.Background(), "PAY002", second.ClaimID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("cross-payor claim records = %d, want 0", len(records))
	}
}

func TestRecordsNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		err := store.Insert(context.Background(), &Record{
			ID:        id,
			PayorID:   "PAY001",
			ClaimID:   "CLM-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.ListByPayor(context.Background(), "PAY001")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, want := range []string{"n3", "n2", "n1"} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}
}

func TestSubmittedEventMessages(t *testing.T) {
	sender := &MockSender{}
	d := newTestDispatcher(sender)

	d.DispatchClaimEvent(context.Background(), ClaimEvent{
		Type:         EventClaimSubmitted,
		ClaimID:      "CLM-1",
		PayorID:      "PAY001",
		Status:       "under_review",
		PatientEmail: "john@test.com",
	})

	calls := sender.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !strings.Contains(calls[0].Body, "Claim submitted for manual review") {
		t.Errorf("body = %q", calls[0].Body)
	}
}
