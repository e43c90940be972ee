package player

import (
	"context"
	"time"
)

// Repository exposes player persistence. Name normalization happens above
// this layer; the list methods feed it candidate sets.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Player, error)
	GetByExternalID(ctx context.Context, source, externalID string) (*Player, error)
	ListByTeamSeason(ctx context.Context, teamID, seasonID string) ([]Player, error)
	ListByBirthDate(ctx context.Context, birthDate time.Time) ([]Player, error)
	Create(ctx context.Context, item Player) error
	Update(ctx context.Context, item Player) error
	UpsertHistory(ctx context.Context, item PlayerTeamHistory) error
	ListHistories(ctx context.Context, teamID, seasonID string) ([]PlayerTeamHistory, error)
}
