package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtsync/courtsync/internal/domain/player"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// PlayerRef is the identity evidence one source offers for a player:
// always an external id, sometimes a name with roster context or a birth
// date.
type PlayerRef struct {
	ExternalID string
	Name       string
	FirstName  string
	LastName   string
	BirthDate  *time.Time
	TeamID     string
	SeasonID   string
}

func (r PlayerRef) displayName() string {
	if r.FirstName != "" || r.LastName != "" {
		return strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	return strings.TrimSpace(r.Name)
}

// PlayerDeduplicator resolves player references to canonical rows:
// external id, then roster-scoped name, then name plus birth date, then
// create.
type PlayerDeduplicator struct {
	players player.Repository
	ids     id.Generator
	logger  *logging.Logger
}

func NewPlayerDeduplicator(players player.Repository, ids id.Generator, logger *logging.Logger) *PlayerDeduplicator {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerDeduplicator{
		players: players,
		ids:     ids,
		logger:  logger.Named("player_dedup"),
	}
}

// Resolve returns the canonical player for ref, creating one when nothing
// matches. created reports whether a new row was inserted.
func (d *PlayerDeduplicator) Resolve(ctx context.Context, source string, ref PlayerRef) (*player.Player, bool, error) {
	externalID := strings.TrimSpace(ref.ExternalID)
	if externalID == "" {
		return nil, false, fmt.Errorf("%w: player external id is required", ErrInvalidInput)
	}

	existing, err := d.players.GetByExternalID(ctx, source, externalID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup player by external id %s/%s: %w", source, externalID, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	name := ref.displayName()
	if name != "" {
		if matched, err := d.matchOnRoster(ctx, name, ref.TeamID, ref.SeasonID, source); err != nil {
			return nil, false, err
		} else if matched != nil {
			return d.attachExternalID(ctx, matched, source, externalID)
		}

		if ref.BirthDate != nil {
			if matched, err := d.matchOnBirthDate(ctx, name, *ref.BirthDate, source); err != nil {
				return nil, false, err
			} else if matched != nil {
				return d.attachExternalID(ctx, matched, source, externalID)
			}
		}
	}

	first, last := ref.FirstName, ref.LastName
	if first == "" && last == "" {
		first, last = SplitName(name)
	}
	created := player.Player{
		ID:          d.ids.NewID(),
		FirstName:   strings.TrimSpace(first),
		LastName:    strings.TrimSpace(last),
		BirthDate:   ref.BirthDate,
		ExternalIDs: map[string]string{source: externalID},
	}
	if err := created.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := d.players.Create(ctx, created); err != nil {
		// A concurrent sync may have inserted the same (source,
		// external id) first; the unique index rejects this copy.
		winner, lookupErr := d.players.GetByExternalID(ctx, source, externalID)
		if lookupErr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create player %q: %w", name, err)
	}
	return &created, true, nil
}

func (d *PlayerDeduplicator) matchOnRoster(ctx context.Context, name, teamID, seasonID, source string) (*player.Player, error) {
	if teamID == "" || seasonID == "" {
		return nil, nil
	}
	roster, err := d.players.ListByTeamSeason(ctx, teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list roster %s/%s: %w", teamID, seasonID, err)
	}
	return pickByName(ctx, d.logger, roster, name, source), nil
}

func (d *PlayerDeduplicator) matchOnBirthDate(ctx context.Context, name string, birthDate time.Time, source string) (*player.Player, error) {
	candidates, err := d.players.ListByBirthDate(ctx, birthDate)
	if err != nil {
		return nil, fmt.Errorf("list players born %s: %w", birthDate.Format("2006-01-02"), err)
	}
	return pickByName(ctx, d.logger, candidates, name, source), nil
}

// pickByName filters candidates to exact compact-form name matches and
// picks deterministically: a row already carrying this source's id wins,
// then the lexicographically smallest id.
func pickByName(ctx context.Context, logger *logging.Logger, candidates []player.Player, name, source string) *player.Player {
	compact := CompactName(name)
	if compact == "" {
		return nil
	}

	matches := make([]player.Player, 0, 1)
	for _, candidate := range candidates {
		if CompactName(candidate.FullName()) == compact {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		for _, candidate := range matches {
			if _, ok := candidate.ExternalIDs[source]; ok {
				candidate := candidate
				return &candidate
			}
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
		logger.WarnContext(ctx, "ambiguous player name match, picking smallest id",
			"name", name, "candidates", len(matches))
	}
	match := matches[0]
	return &match
}

func (d *PlayerDeduplicator) attachExternalID(ctx context.Context, matched *player.Player, source, externalID string) (*player.Player, bool, error) {
	if matched.ExternalIDs == nil {
		matched.ExternalIDs = make(map[string]string, 1)
	}
	matched.ExternalIDs[source] = externalID
	if err := d.players.Update(ctx, *matched); err != nil {
		return nil, false, fmt.Errorf("attach external id to player %s: %w", matched.ID, err)
	}
	return matched, false, nil
}
