package league

import "context"

// Repository exposes league and season persistence.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*League, error)
	Upsert(ctx context.Context, item League) error

	GetSeason(ctx context.Context, leagueID, name string) (*Season, error)
	UpsertSeason(ctx context.Context, item Season) error
	ListSeasons(ctx context.Context, leagueID string) ([]Season, error)
}
