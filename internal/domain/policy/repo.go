package policy

import "context"

type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByPolicyID(ctx context.Context, payorID, policyID string) (*Policy, error)
	List(ctx context.Context, payorID string, limit, offset int) ([]*Policy, int, error)
	Update(ctx context.Context, payorID string, p *Policy) error
}
