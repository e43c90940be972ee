package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/domain/pbp"
	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtsync/courtsync/internal/platform/id"
)

type stubLeagueAdapter struct {
	source   string
	seasons  []RawSeason
	teams    []RawTeam
	schedule []RawGame
	boxes    map[string]*RawBoxScore
	events   map[string][]RawPBPEvent
}

func (a *stubLeagueAdapter) Source() string { return a.source }

func (a *stubLeagueAdapter) GetSeasons(_ context.Context) ([]RawSeason, error) {
	return a.seasons, nil
}

func (a *stubLeagueAdapter) GetAvailableSeasons(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(a.seasons))
	for _, s := range a.seasons {
		out = append(out, s.Name)
	}
	return out, nil
}

func (a *stubLeagueAdapter) GetTeams(_ context.Context, _ string) ([]RawTeam, error) {
	return a.teams, nil
}

func (a *stubLeagueAdapter) GetSchedule(_ context.Context, _ string) ([]RawGame, error) {
	return a.schedule, nil
}

func (a *stubLeagueAdapter) GetGameBoxScore(_ context.Context, gameExternalID string) (*RawBoxScore, error) {
	box, ok := a.boxes[gameExternalID]
	if !ok {
		return nil, &APIError{Source: a.source, StatusCode: 404}
	}
	return box, nil
}

func (a *stubLeagueAdapter) GetGamePBP(_ context.Context, gameExternalID string) ([]RawPBPEvent, map[string]int, error) {
	return a.events[gameExternalID], nil, nil
}

func (a *stubLeagueAdapter) IsGameFinal(g RawGame) bool {
	return g.HomeScore != nil && g.AwayScore != nil && (*g.HomeScore != 0 || *g.AwayScore != 0)
}

func (a *stubLeagueAdapter) GetGamesSince(ctx context.Context, since time.Time, seasonExternalID string) ([]RawGame, error) {
	return GamesSince(ctx, a, since, seasonExternalID)
}

type syncFixture struct {
	manager  *SyncManager
	adapter  *stubLeagueAdapter
	leagues  *memory.LeagueRepository
	teams    *memory.TeamRepository
	games    *memory.GameRepository
	players  *memory.PlayerRepository
	stats    *memory.BoxscoreRepository
	events   *memory.PBPRepository
	syncLogs *memory.SyncLogRepository
	tracker  *memory.TrackerRepository
}

func newSyncFixture(adapter *stubLeagueAdapter) *syncFixture {
	f := &syncFixture{
		adapter:  adapter,
		leagues:  memory.NewLeagueRepository(),
		teams:    memory.NewTeamRepository(),
		games:    memory.NewGameRepository(),
		players:  memory.NewPlayerRepository(),
		stats:    memory.NewBoxscoreRepository(),
		events:   memory.NewPBPRepository(),
		syncLogs: memory.NewSyncLogRepository(),
		tracker:  memory.NewTrackerRepository(),
	}

	ids := id.NewUUIDGenerator()
	matcher := NewTeamMatcher(f.teams, f.syncLogs, ids, nil)
	teamSyncer := NewTeamSyncer(matcher, f.teams, nil)
	dedup := NewPlayerDeduplicator(f.players, ids, nil)
	gameSyncer := NewGameSyncer(teamSyncer, dedup, f.teams, f.games, f.players, f.stats, f.events, ids, nil)

	f.manager = NewSyncManager(SyncManagerDeps{
		Sources: []SourceRegistration{{
			Adapter: adapter,
			League:  league.League{Code: adapter.source, Name: "Test League", Country: "IL"},
		}},
		Leagues:    f.leagues,
		Teams:      f.teams,
		Games:      f.games,
		Players:    f.players,
		TeamSyncer: teamSyncer,
		GameSyncer: gameSyncer,
		Tracker:    f.tracker,
		SyncLogs:   f.syncLogs,
		PlayerInfo: NewPlayerInfoService(nil, nil),
		IDs:        ids,
	})
	return f
}

func testAdapter() *stubLeagueAdapter {
	oct := func(day, hour int) time.Time {
		return time.Date(2024, time.October, day, hour, 0, 0, 0, time.UTC)
	}
	finalGame := func(externalID, home, away string, homeScore, awayScore int, date time.Time) RawGame {
		return RawGame{
			ExternalID:         externalID,
			SeasonExternalID:   "2024-25",
			HomeTeamExternalID: home,
			AwayTeamExternalID: away,
			HomeTeamName:       "Team " + home,
			AwayTeamName:       "Team " + away,
			GameDate:           date,
			HomeScore:          intPtr(homeScore),
			AwayScore:          intPtr(awayScore),
		}
	}
	statsLine := func(playerExternalID, name string, points int) RawPlayerStats {
		return RawPlayerStats{
			PlayerExternalID: playerExternalID,
			PlayerName:       name,
			Points:           points,
			SecondsPlayed:    1200,
		}
	}

	g1 := finalGame("g1", "101", "102", 79, 84, oct(3, 20))
	g2 := finalGame("g2", "103", "101", 90, 80, oct(5, 19))
	upcoming := RawGame{
		ExternalID:         "g3",
		SeasonExternalID:   "2024-25",
		HomeTeamExternalID: "102",
		AwayTeamExternalID: "103",
		HomeTeamName:       "Team 102",
		AwayTeamName:       "Team 103",
		GameDate:           oct(20, 20),
	}

	return &stubLeagueAdapter{
		source: "winner",
		seasons: []RawSeason{{
			Name:       "2024-25",
			ExternalID: "2024-25",
			SourceID:   "2024-25",
			StartDate:  oct(1, 0),
			EndDate:    time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		}},
		teams: []RawTeam{
			{ExternalID: "101", Name: "Team 101"},
			{ExternalID: "102", Name: "Team 102"},
			{ExternalID: "103", Name: "Team 103"},
		},
		schedule: []RawGame{g1, g2, upcoming},
		boxes: map[string]*RawBoxScore{
			"g1": {
				Game:        g1,
				HomePlayers: []RawPlayerStats{statsLine("p1", "Avi Levi", 40), statsLine("p2", "Dan Peri", 39)},
				AwayPlayers: []RawPlayerStats{statsLine("p3", "Gal Oren", 84)},
			},
			"g2": {
				Game:        g2,
				HomePlayers: []RawPlayerStats{statsLine("p4", "Noam Bar", 90)},
				AwayPlayers: []RawPlayerStats{statsLine("p1", "Avi Levi", 80)},
			},
		},
		events: map[string][]RawPBPEvent{
			"g1": {
				{EventNumber: 1, Period: 1, Clock: "08:10", EventType: pbp.EventShot, EventSubtype: "2pt", TeamExternalID: "101", PlayerExternalID: "p1", Success: boolPtr(true)},
				{EventNumber: 2, Period: 1, Clock: "08:10", EventType: pbp.EventAssist, TeamExternalID: "101", PlayerExternalID: "p2", RelatedEventNumbers: []int{1}},
			},
		},
	}
}

func TestSyncSeasonIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newSyncFixture(testAdapter())

	first, err := f.manager.SyncSeason(ctx, "winner", "2024-25", true)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.Status != synclog.StatusCompleted {
		t.Fatalf("first sync status = %s", first.Status)
	}
	if first.RecordsProcessed != 2 || first.RecordsCreated != 2 || first.RecordsSkipped != 0 {
		t.Fatalf("first sync counters = processed=%d created=%d skipped=%d",
			first.RecordsProcessed, first.RecordsCreated, first.RecordsSkipped)
	}

	if first.SeasonID == nil {
		t.Fatal("first sync log has no season id")
	}
	games, err := f.games.ListBySeason(ctx, *first.SeasonID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("persisted games = %d, want 2", len(games))
	}

	g1, err := f.games.GetByExternalID(ctx, "winner", "g1")
	if err != nil || g1 == nil {
		t.Fatalf("g1 missing: %v %v", g1, err)
	}
	if g1.HomeScore == nil || *g1.HomeScore != 79 || g1.AwayScore == nil || *g1.AwayScore != 84 {
		t.Fatalf("g1 scores = %v %v", g1.HomeScore, g1.AwayScore)
	}
	rows, err := f.stats.ListByGame(ctx, g1.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("g1 stats rows = %d, want 3", len(rows))
	}
	events, err := f.events.ListByGame(ctx, g1.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("g1 events = %d, want 2", len(events))
	}
	if events[1].PlayerID == nil {
		t.Fatal("assist player not resolved")
	}

	// The traded player appears in both games under one canonical row.
	p1, err := f.players.GetByExternalID(ctx, "winner", "p1")
	if err != nil || p1 == nil {
		t.Fatalf("p1 missing: %v %v", p1, err)
	}

	second, err := f.manager.SyncSeason(ctx, "winner", "2024-25", true)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.RecordsProcessed != 2 || second.RecordsCreated != 0 || second.RecordsSkipped != 2 {
		t.Fatalf("second sync counters = processed=%d created=%d skipped=%d",
			second.RecordsProcessed, second.RecordsCreated, second.RecordsSkipped)
	}
}

func TestSyncSeasonRejectsConcurrentRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newSyncFixture(testAdapter())
	first, err := f.manager.SyncSeason(ctx, "winner", "2024-25", false)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}

	blocker := synclog.SyncLog{
		ID:         "running-1",
		Source:     "winner",
		EntityType: synclog.EntitySeason,
		SeasonID:   first.SeasonID,
		Status:     synclog.StatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	if err := f.syncLogs.Create(ctx, blocker); err != nil {
		t.Fatalf("seed running log: %v", err)
	}

	if _, err := f.manager.SyncSeason(ctx, "winner", "2024-25", false); !errors.Is(err, ErrSyncAlreadyRunning) {
		t.Fatalf("err = %v, want ErrSyncAlreadyRunning", err)
	}
}

func TestSyncSeasonUnknownSource(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(testAdapter())
	_, err := f.manager.SyncSeason(context.Background(), "nope", "2024-25", false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSyncSeasonWithProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newSyncFixture(testAdapter())
	var got []ProgressEvent
	for ev := range f.manager.SyncSeasonWithProgress(ctx, "winner", "2024-25", false) {
		got = append(got, ev)
	}

	if len(got) < 2 {
		t.Fatalf("events = %d, want at least start and complete", len(got))
	}
	if got[0].Type != ProgressStart || got[0].Total != 2 {
		t.Fatalf("first event = %+v", got[0])
	}
	last := got[len(got)-1]
	if last.Type != ProgressComplete || last.Log == nil {
		t.Fatalf("last event = %+v", last)
	}
	if last.Log.Status != synclog.StatusCompleted {
		t.Fatalf("final log status = %s", last.Log.Status)
	}

	synced := 0
	for _, ev := range got {
		if ev.Type == ProgressSynced {
			synced++
		}
		if ev.Type == ProgressError {
			t.Fatalf("unexpected error event: %+v", ev)
		}
	}
	if synced != 2 {
		t.Fatalf("synced events = %d, want 2", synced)
	}

	// A rerun streams an empty batch and the skip count.
	got = got[:0]
	for ev := range f.manager.SyncSeasonWithProgress(ctx, "winner", "2024-25", false) {
		got = append(got, ev)
	}
	if got[0].Type != ProgressStart || got[0].Total != 0 || got[0].Skipped != 2 {
		t.Fatalf("rerun first event = %+v", got[0])
	}
}

func TestSyncGameForcesResync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newSyncFixture(testAdapter())
	if _, err := f.manager.SyncSeason(ctx, "winner", "2024-25", false); err != nil {
		t.Fatalf("season sync: %v", err)
	}

	// SyncGame bypasses the tracker, so an already synced game updates.
	log, err := f.manager.SyncGame(ctx, "winner", "g1", false)
	if err != nil {
		t.Fatalf("game sync: %v", err)
	}
	if log.RecordsUpdated != 1 || log.RecordsCreated != 0 {
		t.Fatalf("counters = updated=%d created=%d", log.RecordsUpdated, log.RecordsCreated)
	}
}

func TestSyncSeasonContinuesPastGameFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	adapter := testAdapter()
	delete(adapter.boxes, "g1")
	f := newSyncFixture(adapter)

	log, err := f.manager.SyncSeason(ctx, "winner", "2024-25", false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if log.Status != synclog.StatusCompleted {
		t.Fatalf("status = %s", log.Status)
	}
	if log.RecordsCreated != 1 || log.RecordsSkipped != 1 {
		t.Fatalf("counters = created=%d skipped=%d", log.RecordsCreated, log.RecordsSkipped)
	}

	// The failed game stays untracked so the next run retries it.
	unsynced, err := f.tracker.FilterUnsynced(ctx, "winner", []string{"g1", "g2"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0] != "g1" {
		t.Fatalf("unsynced = %v", unsynced)
	}
}

func TestSyncRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newSyncFixture(testAdapter())
	f.manager.now = func() time.Time {
		return time.Date(2024, time.October, 6, 12, 0, 0, 0, time.UTC)
	}

	log, err := f.manager.SyncRecent(ctx, "winner", 2, false)
	if err != nil {
		t.Fatalf("sync recent: %v", err)
	}
	// Only g2 (Oct 5) falls inside the two-day window.
	if log.RecordsProcessed != 1 || log.RecordsCreated != 1 {
		t.Fatalf("counters = processed=%d created=%d", log.RecordsProcessed, log.RecordsCreated)
	}
	if g2, err := f.games.GetByExternalID(ctx, "winner", "g2"); err != nil || g2 == nil {
		t.Fatalf("g2 missing: %v %v", g2, err)
	}
	if g1, err := f.games.GetByExternalID(ctx, "winner", "g1"); err != nil || g1 != nil {
		t.Fatalf("g1 should not be synced: %v %v", g1, err)
	}
}

func TestSyncAll(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(testAdapter())
	f.manager.now = func() time.Time {
		return time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC)
	}

	results := f.manager.SyncAll(context.Background(), false)
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Source != "winner" || results[0].Status != synclog.StatusCompleted {
		t.Fatalf("result = %+v", results[0])
	}
	if results[0].Log == nil || results[0].Log.RecordsCreated != 2 {
		t.Fatalf("result log = %+v", results[0].Log)
	}
}
