package history

import "context"

// Repository port for persisting and querying recorded actions
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}

// NopRepository is used when no history database is configured.
type NopRepository struct{}

func (NopRepository) Save(ctx context.Context, r *Record) error { return nil }

func (NopRepository) Paginate(ctx context.Context, page, pageSize int) ([]*Record, error) {
	return nil, nil
}
