package preauth

import "context"

type Repository interface {
	Create(ctx context.Context, p *PreAuthorization) error
	GetByPreAuthID(ctx context.Context, payorID, preAuthID string) (*PreAuthorization, error)
	GetByClaimID(ctx context.Context, payorID, claimID string) (*PreAuthorization, error)
	List(ctx context.Context, payorID, status string, limit, offset int) ([]*PreAuthorization, int, error)

	// UpdateStatus is conditional on the record existing for the payor;
	// returns the number of rows updated.
	UpdateStatus(ctx context.Context, payorID, preAuthID, status, notes string) (int64, error)
}
