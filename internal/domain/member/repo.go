package member

import "context"

// Repository is payor-scoped: every method takes the owning payor ID so no
// query can omit the tenant predicate.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, payorID, memberID string) (*Member, error)
	GetByInsuranceID(ctx context.Context, payorID, insuranceID string) (*Member, error)
	List(ctx context.Context, payorID string, limit, offset int) ([]*Member, int, error)
	Update(ctx context.Context, payorID string, m *Member) error
	CountActive(ctx context.Context, payorID string) (int, error)
}
