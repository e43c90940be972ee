package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	leaguemock "github.com/courtsync/courtsync/internal/mocks/domain/league"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/stretchr/testify/mock"
)

func newMockeryManager(t *testing.T, adapter *stubLeagueAdapter) (*SyncManager, *leaguemock.Repository) {
	t.Helper()

	leagues := leaguemock.NewRepository(t)
	teams := memory.NewTeamRepository()
	games := memory.NewGameRepository()
	players := memory.NewPlayerRepository()
	stats := memory.NewBoxscoreRepository()
	events := memory.NewPBPRepository()
	syncLogs := memory.NewSyncLogRepository()
	tracker := memory.NewTrackerRepository()

	ids := id.NewUUIDGenerator()
	matcher := NewTeamMatcher(teams, syncLogs, ids, nil)
	teamSyncer := NewTeamSyncer(matcher, teams, nil)
	dedup := NewPlayerDeduplicator(players, ids, nil)
	gameSyncer := NewGameSyncer(teamSyncer, dedup, teams, games, players, stats, events, ids, nil)

	manager := NewSyncManager(SyncManagerDeps{
		Sources: []SourceRegistration{{
			Adapter: adapter,
			League:  league.League{Code: adapter.source, Name: "Test League", Country: "IL"},
		}},
		Leagues:    leagues,
		Teams:      teams,
		Games:      games,
		Players:    players,
		TeamSyncer: teamSyncer,
		GameSyncer: gameSyncer,
		Tracker:    tracker,
		SyncLogs:   syncLogs,
		PlayerInfo: NewPlayerInfoService(nil, nil),
		IDs:        ids,
	})
	return manager, leagues
}

func TestSyncManager_SyncTeams_CreatesLeagueAndSeasonUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, leagues := newMockeryManager(t, &stubLeagueAdapter{source: "test"})

	leagues.
		On("GetByCode", mock.Anything, "test").
		Return(nil, nil).
		Once()
	leagues.
		On("Upsert", mock.Anything, mock.MatchedBy(func(v league.League) bool {
			return v.Code == "test" && v.ID != ""
		})).
		Return(nil).
		Once()
	leagues.
		On("GetSeason", mock.Anything, mock.AnythingOfType("string"), "2024-25").
		Return(nil, nil).
		Once()
	leagues.
		On("UpsertSeason", mock.Anything, mock.MatchedBy(func(v league.Season) bool {
			return v.Name == "2024-25" && v.LeagueID != ""
		})).
		Return(nil).
		Once()

	log, err := manager.SyncTeams(ctx, "test", "2024-25")
	if err != nil {
		t.Fatalf("sync teams: %v", err)
	}
	if log.Status != synclog.StatusCompleted {
		t.Fatalf("unexpected status: %s", log.Status)
	}
}

func TestSyncManager_SyncTeams_LeagueLookupFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, leagues := newMockeryManager(t, &stubLeagueAdapter{source: "test"})

	leagues.
		On("GetByCode", mock.Anything, "test").
		Return(nil, errors.New("store down")).
		Once()

	_, err := manager.SyncTeams(ctx, "test", "2024-25")
	if err == nil {
		t.Fatal("expected lookup error")
	}
}
