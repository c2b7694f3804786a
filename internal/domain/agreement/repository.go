package agreement

import "context"

type Repository interface {
	Create(ctx context.Context, a *Agreement) error
	GetByID(ctx context.Context, id uint64) (*Agreement, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction; mutations go through this path.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Agreement, error)
	Save(ctx context.Context, a *Agreement) error
	// ListActive returns active agreements in ascending id order.
	ListActive(ctx context.Context) ([]*Agreement, error)
}
