package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/domain/team"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtsync/courtsync/internal/platform/id"
)

func newTeamMatcher() (*TeamMatcher, *memory.TeamRepository, *memory.SyncLogRepository) {
	teams := memory.NewTeamRepository()
	syncLogs := memory.NewSyncLogRepository()
	matcher := NewTeamMatcher(teams, syncLogs, id.NewUUIDGenerator(), nil)
	return matcher, teams, syncLogs
}

func TestTeamMatcherCreatesTeam(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	matcher, teams, _ := newTeamMatcher()
	raw := RawTeam{ExternalID: "1109", Name: "Maccabi Tel Aviv"}

	resolved, created, err := matcher.Resolve(ctx, raw, "s1", "winner")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created {
		t.Fatal("expected created")
	}
	if resolved.ExternalIDs["winner"] != "1109" {
		t.Fatalf("external ids = %v", resolved.ExternalIDs)
	}

	stored, err := teams.GetByExternalID(ctx, "winner", "1109")
	if err != nil || stored == nil {
		t.Fatalf("stored team missing: %v %v", stored, err)
	}
	if stored.ID != resolved.ID {
		t.Fatalf("stored id %s != resolved id %s", stored.ID, resolved.ID)
	}
}

func TestTeamMatcherResolvesByExternalID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	matcher, _, _ := newTeamMatcher()
	raw := RawTeam{ExternalID: "1109", Name: "Maccabi Tel Aviv"}

	first, _, err := matcher.Resolve(ctx, raw, "s1", "winner")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	// A second resolve with a different spelling still hits the same row.
	second, created, err := matcher.Resolve(ctx, RawTeam{ExternalID: "1109", Name: "Maccabi TA"}, "s1", "winner")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("created=%v id=%s want id=%s", created, second.ID, first.ID)
	}
}

func TestTeamMatcherMergesByNameAndFlagsReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	matcher, teams, syncLogs := newTeamMatcher()

	seed := team.Team{
		ID:          "t1",
		Name:        "Maccabi Tel Aviv",
		ExternalIDs: map[string]string{"winner": "1109"},
	}
	if err := teams.Create(ctx, seed); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := teams.EnsureTeamSeason(ctx, team.TeamSeason{TeamID: "t1", SeasonID: "s1"}); err != nil {
		t.Fatalf("seed team season: %v", err)
	}

	resolved, created, err := matcher.Resolve(ctx, RawTeam{ExternalID: "MTA", Name: "maccabi tel aviv"}, "s1", "euroleague")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created {
		t.Fatal("name merge must not report created")
	}
	if resolved.ID != "t1" {
		t.Fatalf("resolved id = %s, want t1", resolved.ID)
	}
	if resolved.ExternalIDs["euroleague"] != "MTA" || resolved.ExternalIDs["winner"] != "1109" {
		t.Fatalf("external ids = %v", resolved.ExternalIDs)
	}

	stored, err := teams.GetByExternalID(ctx, "euroleague", "MTA")
	if err != nil || stored == nil {
		t.Fatalf("merged team not findable by new source id: %v %v", stored, err)
	}

	logs, err := syncLogs.List(ctx, "euroleague", 10)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].EntityType != synclog.EntityTeamMatchReview {
		t.Fatalf("expected one review row, got %+v", logs)
	}
	if logs[0].SeasonID == nil || *logs[0].SeasonID != "s1" {
		t.Fatalf("review season = %v", logs[0].SeasonID)
	}
}

func TestTeamMatcherNoCrossSeasonNameMerge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	matcher, teams, _ := newTeamMatcher()
	seed := team.Team{
		ID:          "t1",
		Name:        "Hapoel Jerusalem",
		ExternalIDs: map[string]string{"winner": "1112"},
	}
	if err := teams.Create(ctx, seed); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := teams.EnsureTeamSeason(ctx, team.TeamSeason{TeamID: "t1", SeasonID: "s1"}); err != nil {
		t.Fatalf("seed team season: %v", err)
	}

	// The seeded team plays in s1 only, so an s2 resolve creates a new row.
	resolved, created, err := matcher.Resolve(ctx, RawTeam{ExternalID: "HJM", Name: "Hapoel Jerusalem"}, "s2", "euroleague")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created || resolved.ID == "t1" {
		t.Fatalf("created=%v id=%s, expected a fresh team", created, resolved.ID)
	}
}

func TestTeamMatcherRejectsMissingExternalID(t *testing.T) {
	t.Parallel()

	matcher, _, _ := newTeamMatcher()
	_, _, err := matcher.Resolve(context.Background(), RawTeam{Name: "No ID"}, "s1", "winner")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

// delayedVisibilityTeamRepo hides rows from the first external-id
// lookup, modelling a concurrent sync committing between the matcher's
// lookup and its create.
type delayedVisibilityTeamRepo struct {
	*memory.TeamRepository
	misses int
}

func (r *delayedVisibilityTeamRepo) GetByExternalID(ctx context.Context, source, externalID string) (*team.Team, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.TeamRepository.GetByExternalID(ctx, source, externalID)
}

func TestTeamMatcherCreateRaceReusesWinnerRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	teams := memory.NewTeamRepository()
	seed := team.Team{
		ID:          "t1",
		Name:        "Hapoel Jerusalem",
		ExternalIDs: map[string]string{"winner": "1203"},
	}
	if err := teams.Create(ctx, seed); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	racing := &delayedVisibilityTeamRepo{TeamRepository: teams, misses: 1}
	matcher := NewTeamMatcher(racing, memory.NewSyncLogRepository(), id.NewUUIDGenerator(), nil)

	resolved, created, err := matcher.Resolve(ctx, RawTeam{ExternalID: "1203", Name: "Hapoel Jerusalem"}, "", "winner")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if created {
		t.Fatal("lost race must not report a new row")
	}
	if resolved.ID != "t1" {
		t.Fatalf("resolved id = %s, want t1", resolved.ID)
	}
}
