package payor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hcms/payor-api/internal/platform/auth"
	"github.com/hcms/payor-api/internal/platform/errs"
)

type Service struct {
	payors   Repository
	mappings MappingRepository
	logger   zerolog.Logger
}

func NewService(payors Repository, mappings MappingRepository, logger zerolog.Logger) *Service {
	return &Service{payors: payors, mappings: mappings, logger: logger}
}

// CreateInput carries the fields for registering a new payor. The password is
// hashed before storage; plaintext is never persisted.
type CreateInput struct {
	PayorID        string    `json:"payor_id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Password       string    `json:"password"`
	Name           string    `json:"name"`
	Organization   string    `json:"organization"`
	ContactPhone   string    `json:"contact_phone"`
	ContactAddress string    `json:"contact_address"`
	Settings       *Settings `json:"settings,omitempty"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Payor, error) {
	if in.PayorID == "" || in.Email == "" || in.Password == "" {
		return nil, errs.E(errs.KindInvalidInput, "payor_id, email and password are required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "hash password")
	}

	settings := DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
	}

	p := &Payor{
		PayorID:        in.PayorID,
		Email:          in.Email,
		Username:       in.Username,
		PasswordHash:   hash,
		Name:           in.Name,
		Organization:   in.Organization,
		ContactPhone:   in.ContactPhone,
		ContactAddress: in.ContactAddress,
		IsActive:       true,
		Settings:       settings,
	}
	if err := s.payors.Create(ctx, p); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create payor")
	}
	return p, nil
}

// Authenticate matches an active payor by email or username and verifies the
// password against its bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*Payor, error) {
	if identifier == "" || password == "" {
		return nil, errs.E(errs.KindInvalidInput, "email/username and password are required")
	}

	p, err := s.payors.GetByLogin(ctx, identifier)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.E(errs.KindAccessDenied, "invalid payor credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		return nil, errs.E(errs.KindAccessDenied, "invalid payor credentials")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, payorID string) (*Payor, error) {
	return s.payors.GetByPayorID(ctx, payorID)
}

// GetSettings loads the payor's adjudication settings.
func (s *Service) GetSettings(ctx context.Context, payorID string) (Settings, error) {
	p, err := s.payors.GetByPayorID(ctx, payorID)
	if err != nil {
		return Settings{}, err
	}
	return p.Settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, payorID string, settings Settings) error {
	if settings.AutoPreauthLimit < 0 || settings.RequireManualReviewOver < 0 {
		return errs.E(errs.KindInvalidInput, "threshold amounts must not be negative")
	}
	return s.payors.UpdateSettings(ctx, payorID, settings)
}

// ResolveInsurance maps an external insurance identifier to the owning payor.
func (s *Service) ResolveInsurance(ctx context.Context, insuranceID string) (string, error) {
	return s.mappings.ResolveInsurance(ctx, insuranceID)
}

func (s *Service) MapInsurance(ctx context.Context, insuranceID, payorID string) error {
	if insuranceID == "" || payorID == "" {
		return errs.E(errs.KindInvalidInput, "insurance_id and payor_id are required")
	}
	if _, err := s.payors.GetByPayorID(ctx, payorID); err != nil {
		return err
	}
	return s.mappings.Create(ctx, &InsuranceMapping{InsuranceID: insuranceID, PayorID: payorID})
}

// Seed ensures the demo payor accounts exist. Returns the number created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	defaults := []CreateInput{
		{
			PayorID: "PAY001", Email: "bcbs_admin@test.com", Username: "bcbs_admin",
			Password: "bcbs_secure_2024", Name: "BlueCross BlueShield", Organization: "BlueCross BlueShield",
			ContactPhone: "1-800-BCBS-HELP", ContactAddress: "123 Insurance Way, Healthcare City, HC 12345",
		},
		{
			PayorID: "PAY002", Email: "united_admin@test.com", Username: "united_admin",
			Password: "united_secure_2024", Name: "UnitedHealth Group", Organization: "UnitedHealth Group",
			ContactPhone: "1-800-UNITED-1", ContactAddress: "456 Health Plaza, Medical City, MC 54321",
		},
		{
			PayorID: "PAY003", Email: "anthem_admin@test.com", Username: "anthem_admin",
			Password: "anthem_secure_2024", Name: "Anthem Inc", Organization: "Anthem Inc",
			ContactPhone: "1-800-ANTHEM-1", ContactAddress: "789 Care Boulevard, Insurance Town, IT 98765",
		},
	}

	created := 0
	for _, in := range defaults {
		if _, err := s.payors.GetByPayorID(ctx, in.PayorID); err == nil {
			continue
		} else if errs.KindOf(err) != errs.KindNotFound {
			return created, err
		}
		if _, err := s.Create(ctx, in); err != nil {
			s.logger.Error().Err(err).Str("payor_id", in.PayorID).Msg("failed to seed payor")
			continue
		}
		s.logger.Info().Str("payor_id", in.PayorID).Str("name", in.Name).Msg("seeded default payor")
		created++
	}
	return created, nil
}
