package payor

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payor) error
	GetByPayorID(ctx context.Context, payorID string) (*Payor, error)
	// GetByLogin matches an active payor by email or username.
	GetByLogin(ctx context.Context, identifier string) (*Payor, error)
	UpdateSettings(ctx context.Context, payorID string, s Settings) error
}

type MappingRepository interface {
	Create(ctx context.Context, m *InsuranceMapping) error
	// ResolveInsurance returns the payor ID owning the given insurance ID.
	ResolveInsurance(ctx context.Context, insuranceID string) (string, error)
	List(ctx context.Context) ([]*InsuranceMapping, error)
}
