package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtsync/courtsync/internal/domain/player"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtsync/courtsync/internal/platform/id"
)

func newDedup() (*PlayerDeduplicator, *memory.PlayerRepository) {
	players := memory.NewPlayerRepository()
	dedup := NewPlayerDeduplicator(players, id.NewUUIDGenerator(), nil)
	return dedup, players
}

func TestPlayerDedupCreatesPlayer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dedup, players := newDedup()
	resolved, created, err := dedup.Resolve(ctx, "euroleague", PlayerRef{
		ExternalID: "P001",
		Name:       "Luka Doncic",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created {
		t.Fatal("expected created")
	}
	if resolved.FirstName != "Luka" || resolved.LastName != "Doncic" {
		t.Fatalf("name = %q %q", resolved.FirstName, resolved.LastName)
	}

	stored, err := players.GetByExternalID(ctx, "euroleague", "P001")
	if err != nil || stored == nil {
		t.Fatalf("stored player missing: %v %v", stored, err)
	}
}

func TestPlayerDedupResolvesByExternalID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dedup, _ := newDedup()
	first, _, err := dedup.Resolve(ctx, "winner", PlayerRef{ExternalID: "1019", Name: "Or Cohen"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, created, err := dedup.Resolve(ctx, "winner", PlayerRef{ExternalID: "1019", Name: "spelled differently"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("created=%v id=%s want %s", created, second.ID, first.ID)
	}
}

func TestPlayerDedupMatchesOnRoster(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dedup, players := newDedup()
	seed := player.Player{
		ID:          "p1",
		FirstName:   "Or",
		LastName:    "Cohen",
		ExternalIDs: map[string]string{"winner": "1019"},
	}
	if err := players.Create(ctx, seed); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	history := player.PlayerTeamHistory{PlayerID: "p1", TeamID: "t1", SeasonID: "s1"}
	if err := players.UpsertHistory(ctx, history); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	resolved, created, err := dedup.Resolve(ctx, "euroleague", PlayerRef{
		ExternalID: "E77",
		Name:       "OR COHEN",
		TeamID:     "t1",
		SeasonID:   "s1",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created || resolved.ID != "p1" {
		t.Fatalf("created=%v id=%s, expected roster match to p1", created, resolved.ID)
	}
	if resolved.ExternalIDs["euroleague"] != "E77" || resolved.ExternalIDs["winner"] != "1019" {
		t.Fatalf("external ids = %v", resolved.ExternalIDs)
	}
}

func TestPlayerDedupMatchesOnBirthDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dedup, players := newDedup()
	born := time.Date(1998, time.March, 12, 0, 0, 0, 0, time.UTC)
	seed := player.Player{
		ID:          "p1",
		FirstName:   "Or",
		LastName:    "Cohen",
		BirthDate:   &born,
		ExternalIDs: map[string]string{"winner": "1019"},
	}
	if err := players.Create(ctx, seed); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	resolved, created, err := dedup.Resolve(ctx, "euroleague", PlayerRef{
		ExternalID: "E77",
		FirstName:  "Or",
		LastName:   "Cohen",
		BirthDate:  &born,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created || resolved.ID != "p1" {
		t.Fatalf("created=%v id=%s, expected birth date match to p1", created, resolved.ID)
	}
}

func TestPlayerDedupNameAloneCreates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dedup, players := newDedup()
	seed := player.Player{
		ID:          "p1",
		FirstName:   "Or",
		LastName:    "Cohen",
		ExternalIDs: map[string]string{"winner": "1019"},
	}
	if err := players.Create(ctx, seed); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	// Same name with no roster context and no birth date is not enough
	// evidence to merge.
	resolved, created, err := dedup.Resolve(ctx, "euroleague", PlayerRef{
		ExternalID: "E77",
		Name:       "Or Cohen",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created || resolved.ID == "p1" {
		t.Fatalf("created=%v id=%s, expected a fresh player", created, resolved.ID)
	}
}

func TestPlayerDedupRejectsMissingExternalID(t *testing.T) {
	t.Parallel()

	dedup, _ := newDedup()
	_, _, err := dedup.Resolve(context.Background(), "winner", PlayerRef{Name: "No ID"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

// delayedVisibilityPlayerRepo hides rows from the first external-id
// lookup, modelling a concurrent sync committing between the
// deduplicator's lookup and its create.
type delayedVisibilityPlayerRepo struct {
	*memory.PlayerRepository
	misses int
}

func (r *delayedVisibilityPlayerRepo) GetByExternalID(ctx context.Context, source, externalID string) (*player.Player, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.PlayerRepository.GetByExternalID(ctx, source, externalID)
}

func TestPlayerDedupCreateRaceReusesWinnerRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	players := memory.NewPlayerRepository()
	seed := player.Player{
		ID:          "p1",
		FirstName:   "Tamir",
		LastName:    "Blatt",
		ExternalIDs: map[string]string{"winner": "77"},
	}
	if err := players.Create(ctx, seed); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	racing := &delayedVisibilityPlayerRepo{PlayerRepository: players, misses: 1}
	dedup := NewPlayerDeduplicator(racing, id.NewUUIDGenerator(), nil)

	resolved, created, err := dedup.Resolve(ctx, "winner", PlayerRef{ExternalID: "77", Name: "Tamir Blatt"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created {
		t.Fatal("lost race must not report a new row")
	}
	if resolved.ID != "p1" {
		t.Fatalf("resolved id = %s, want p1", resolved.ID)
	}
}
