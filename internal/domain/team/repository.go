package team

import "context"

// Repository exposes team persistence. Name matching happens above this
// layer; ListBySeason feeds it the candidate set.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Team, error)
	GetByExternalID(ctx context.Context, source, externalID string) (*Team, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
	Create(ctx context.Context, item Team) error
	Update(ctx context.Context, item Team) error
	EnsureTeamSeason(ctx context.Context, item TeamSeason) error
}
