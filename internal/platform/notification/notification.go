// Package notification dispatches claim lifecycle notifications to patients
// and providers over email/SMS, persists every attempt, and exposes the
// stored records over Echo handlers.
//
// Dispatch is fire-and-forget: delivery failures are recorded and logged,
// never returned to the caller, so a failed notification can never roll back
// a committed claim decision.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Channel is the delivery channel for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Event types.
const (
	EventClaimSubmitted = "claim_submitted"
	EventClaimDecision  = "claim_decision"
)

// ClaimEvent carries everything the dispatcher needs to notify the parties
// attached to a claim. The claim itself stays in its own package.
type ClaimEvent struct {
	Type           string
	ClaimID        string
	PayorID        string
	Status         string
	Amount         float64
	ApprovedAmount float64
	PatientName    string
	PatientPhone   string
	PatientEmail   string
	ProviderID     string
	ProviderName   string
	ProviderEmail  string
}

// Record is one stored notification attempt.
type Record struct {
	ID        string    `json:"id"`
	Channel   Channel   `json:"channel"`
	Recipient string    `json:"recipient"`
	EventType string    `json:"event_type"`
	ClaimID   string    `json:"claim_id"`
	PayorID   string    `json:"payor_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notification records. Listings are payor-scoped and
// returned newest first.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	ListByPayor(ctx context.Context, payorID string) ([]*Record, error)
	ListByClaim(ctx context.Context, payorID, claimID string) ([]*Record, error)
}

// MemoryStore keeps records in process memory. It backs tests and local
// development without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ListByPayor(_ context.Context, payorID string) ([]*Record, error) {
	return s.list(func(r *Record) bool { return r.PayorID == payorID }), nil
}

func (s *MemoryStore) ListByClaim(_ context.Context, payorID, claimID string) ([]*Record, error) {
	return s.list(func(r *Record) bool { return r.PayorID == payorID && r.ClaimID == claimID }), nil
}

func (s *MemoryStore) list(match func(*Record) bool) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// EmailSender delivers email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, body string) error
}

// SMSSender delivers SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogSender writes outbound messages to the log instead of delivering them.
// It is the default sender in development.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) SendEmail(_ context.Context, to, body string) error {
	s.Logger.Info().Str("channel", "email").Str("to", to).Str("body", body).Msg("notification sent")
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.Logger.Info().Str("channel", "sms").Str("to", to).Str("body", body).Msg("notification sent")
	return nil
}

// SendCall records a single delivery attempt made through a mock sender.
type SendCall struct {
	Channel Channel
	To      string
	Body    string
}

// MockSender is a test double implementing both sender interfaces.
type MockSender struct {
	mu         sync.Mutex
	calls      []SendCall
	ShouldFail bool
	FailError  string
}

func (m *MockSender) SendEmail(_ context.Context, to, body string) error {
	return m.record(ChannelEmail, to, body)
}

func (m *MockSender) SendSMS(_ context.Context, to, body string) error {
	return m.record(ChannelSMS, to, body)
}

func (m *MockSender) record(ch Channel, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SendCall{Channel: ch, To: to, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded delivery attempts.
func (m *MockSender) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Dispatcher routes claim events to patient and provider recipients and
// stores a record of every attempt.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	store  Store
	logger zerolog.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, store Store, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		email:  email,
		sms:    sms,
		store:  store,
		logger: logger,
	}
}

// DispatchClaimEvent notifies the patient and provider attached to a claim.
// Each recipient is notified independently when contact data exists; nothing
// is returned because delivery failures must never reach the caller.
func (d *Dispatcher) DispatchClaimEvent(ctx context.Context, ev ClaimEvent) {
	patientMsg := d.patientMessage(ev)
	if ev.PatientPhone != "" {
		d.send(ctx, ev, ChannelSMS, ev.PatientPhone, patientMsg)
	}
	if ev.PatientEmail != "" {
		d.send(ctx, ev, ChannelEmail, ev.PatientEmail, patientMsg)
	}
	if ev.ProviderEmail != "" {
		d.send(ctx, ev, ChannelEmail, ev.ProviderEmail, d.providerMessage(ev))
	}
}

func (d *Dispatcher) patientMessage(ev ClaimEvent) string {
	if ev.Type == EventClaimDecision {
		msg := fmt.Sprintf("Your claim %s has been %s", ev.ClaimID, ev.Status)
		if ev.Status == "approved" {
			amount := ev.ApprovedAmount
			if amount == 0 {
				amount = ev.Amount
			}
			msg += fmt.Sprintf(" for $%.2f", amount)
		}
		return msg
	}
	return fmt.Sprintf("Your claim %s has been received: %s", ev.ClaimID, statusMessage(ev.Status))
}

func (d *Dispatcher) providerMessage(ev ClaimEvent) string {
	if ev.Type == EventClaimDecision {
		return fmt.Sprintf("Claim %s decision: %s", ev.ClaimID, ev.Status)
	}
	return fmt.Sprintf("Claim %s for %s: %s", ev.ClaimID, ev.PatientName, statusMessage(ev.Status))
}

func statusMessage(status string) string {
	switch status {
	case "approved":
		return "Claim approved after validation"
	case "under_review":
		return "Claim submitted for manual review"
	case "rejected":
		return "Claim rejected due to coverage exclusion"
	case "pending":
		return "Claim received and pending review"
	default:
		return "Claim status updated"
	}
}

func (d *Dispatcher) send(ctx context.Context, ev ClaimEvent, ch Channel, to, body string) {
	rec := &Record{
		ID:        uuid.New().String(),
		Channel:   ch,
		Recipient: to,
		EventType: ev.Type,
		ClaimID:   ev.ClaimID,
		PayorID:   ev.PayorID,
		Message:   body,
		Status:    "sent",
		CreatedAt: time.Now().UTC(),
	}

	var err error
	switch ch {
	case ChannelSMS:
		err = d.sms.SendSMS(ctx, to, body)
	default:
		err = d.email.SendEmail(ctx, to, body)
	}
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
		d.logger.Error().Err(err).
			Str("claim_id", ev.ClaimID).
			Str("channel", string(ch)).
			Str("recipient", to).
			Msg("notification delivery failed")
	}

	if err := d.store.Insert(ctx, rec); err != nil {
		d.logger.Error().Err(err).
			Str("claim_id", ev.ClaimID).
			Str("recipient", to).
			Msg("failed to store notification record")
	}
}

// Records returns stored notification attempts for a payor, newest first.
func (d *Dispatcher) Records(ctx context.Context, payorID string) ([]*Record, error) {
	return d.store.ListByPayor(ctx, payorID)
}

// RecordsForClaim returns stored notification attempts for one claim,
// newest first.
func (d *Dispatcher) RecordsForClaim(ctx context.Context, payorID, claimID string) ([]*Record, error) {
	return d.store.ListByClaim(ctx, payorID, claimID)
}

// Handler exposes the stored notification records.
type Handler struct {
	dispatcher *Dispatcher
	payorID    func(c echo.Context) string
}

func NewHandler(dispatcher *Dispatcher, payorID func(c echo.Context) string) *Handler {
	return &Handler{dispatcher: dispatcher, payorID: payorID}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.List)
}

// List returns the payor's notification records, optionally narrowed to one
// claim with ?claim_id=.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	payorID := h.payorID(c)

	var (
		records []*Record
		err     error
	)
	if claimID := c.QueryParam("claim_id"); claimID != "" {
		records, err = h.dispatcher.RecordsForClaim(ctx, payorID, claimID)
	} else {
		records, err = h.dispatcher.Records(ctx, payorID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load notifications")
	}
	if records == nil {
		records = []*Record{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": records,
		"total":         len(records),
	})
}
