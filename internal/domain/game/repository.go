package game

import "context"

// Repository exposes game persistence.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Game, error)
	GetByExternalID(ctx context.Context, source, externalID string) (*Game, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Game, error)
	Upsert(ctx context.Context, item Game) error
}
