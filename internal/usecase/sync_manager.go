package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtsync/courtsync/internal/domain/game"
	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/domain/player"
	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/domain/team"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// SourceRegistration binds a league adapter to the league its games feed.
type SourceRegistration struct {
	Adapter LeagueAdapter
	League  league.League
}

// SyncManagerDeps carries the manager's collaborators.
type SyncManagerDeps struct {
	Sources    []SourceRegistration
	Leagues    league.Repository
	Teams      team.Repository
	Games      game.Repository
	Players    player.Repository
	TeamSyncer *TeamSyncer
	GameSyncer *GameSyncer
	Tracker    synclog.TrackerRepository
	SyncLogs   synclog.Repository
	PlayerInfo *PlayerInfoService
	IDs        id.Generator
	Pool       *ants.Pool
	Logger     *logging.Logger
}

// SyncManager orchestrates season, game, roster, and recent-games syncs
// across the registered sources.
type SyncManager struct {
	adapters map[string]SourceRegistration
	order    []string

	leagues    league.Repository
	teams      team.Repository
	games      game.Repository
	players    player.Repository
	teamSyncer *TeamSyncer
	gameSyncer *GameSyncer
	tracker    synclog.TrackerRepository
	syncLogs   synclog.Repository
	playerInfo *PlayerInfoService
	ids        id.Generator
	pool       *ants.Pool
	logger     *logging.Logger
	now        func() time.Time
}

func NewSyncManager(deps SyncManagerDeps) *SyncManager {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	adapters := make(map[string]SourceRegistration, len(deps.Sources))
	order := make([]string, 0, len(deps.Sources))
	for _, reg := range deps.Sources {
		source := reg.Adapter.Source()
		adapters[source] = reg
		order = append(order, source)
	}

	return &SyncManager{
		adapters:   adapters,
		order:      order,
		leagues:    deps.Leagues,
		teams:      deps.Teams,
		games:      deps.Games,
		players:    deps.Players,
		teamSyncer: deps.TeamSyncer,
		gameSyncer: deps.GameSyncer,
		tracker:    deps.Tracker,
		syncLogs:   deps.SyncLogs,
		playerInfo: deps.PlayerInfo,
		ids:        deps.IDs,
		pool:       deps.Pool,
		logger:     logger.Named("sync_manager"),
		now:        time.Now,
	}
}

func (m *SyncManager) Sources() []string {
	return append([]string(nil), m.order...)
}

func (m *SyncManager) adapter(source string) (SourceRegistration, error) {
	reg, ok := m.adapters[source]
	if !ok {
		return SourceRegistration{}, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, source)
	}
	return reg, nil
}

// SyncSeason runs a full season sync and returns the closed sync log.
func (m *SyncManager) SyncSeason(ctx context.Context, source, seasonExternalID string, includePBP bool) (*synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncSeason")
	defer span.End()

	return m.runSeasonSync(ctx, source, seasonExternalID, includePBP, nil)
}

// SyncSeasonWithProgress runs the same sync while streaming tagged
// progress events. The channel closes after the terminal complete event.
// Cancelling ctx stops the producer after the in-flight game.
func (m *SyncManager) SyncSeasonWithProgress(ctx context.Context, source, seasonExternalID string, includePBP bool) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	emit := func(ev ProgressEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)
		ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncSeasonWithProgress")
		defer span.End()

		if _, err := m.runSeasonSync(ctx, source, seasonExternalID, includePBP, emit); err != nil {
			m.logger.ErrorContext(ctx, "season sync failed",
				"source", source, "season", seasonExternalID, "error", err)
		}
	}()
	return ch
}

func (m *SyncManager) runSeasonSync(ctx context.Context, source, seasonExternalID string, includePBP bool, emit func(ProgressEvent) bool) (*synclog.SyncLog, error) {
	if emit == nil {
		emit = func(ProgressEvent) bool { return true }
	}

	reg, err := m.adapter(source)
	if err != nil {
		return nil, err
	}

	season, sourceSeasonID, err := m.resolveSeason(ctx, reg, seasonExternalID)
	if err != nil {
		return nil, err
	}

	if running, err := m.syncLogs.GetRunning(ctx, source, synclog.EntitySeason, &season.ID); err != nil {
		return nil, fmt.Errorf("check running sync: %w", err)
	} else if running != nil {
		return nil, fmt.Errorf("%w: source=%s season=%s log=%s", ErrSyncAlreadyRunning, source, season.Name, running.ID)
	}

	log := m.openLog(ctx, source, synclog.EntitySeason, &season.ID, nil)
	if log == nil {
		return nil, fmt.Errorf("open sync log: %w", ErrDependencyUnavailable)
	}

	err = m.seasonSyncBody(ctx, reg, season, sourceSeasonID, includePBP, log, emit)
	if err != nil {
		m.closeLogFailed(ctx, log, err)
		emit(ProgressEvent{Type: ProgressComplete, Log: log})
		return log, err
	}

	m.closeLogCompleted(ctx, log)
	emit(ProgressEvent{Type: ProgressComplete, Log: log})
	return log, nil
}

func (m *SyncManager) seasonSyncBody(ctx context.Context, reg SourceRegistration, season *league.Season, sourceSeasonID string, includePBP bool, log *synclog.SyncLog, emit func(ProgressEvent) bool) error {
	source := reg.Adapter.Source()

	if err := m.syncTeamsForSeason(ctx, reg, season, sourceSeasonID, log); err != nil {
		return fmt.Errorf("sync teams: %w", err)
	}

	schedule, err := reg.Adapter.GetSchedule(ctx, sourceSeasonID)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}

	finals := make([]RawGame, 0, len(schedule))
	externalIDs := make([]string, 0, len(schedule))
	for _, g := range schedule {
		if !reg.Adapter.IsGameFinal(g) {
			continue
		}
		finals = append(finals, g)
		externalIDs = append(externalIDs, g.ExternalID)
	}

	unsyncedIDs, err := m.tracker.FilterUnsynced(ctx, source, externalIDs)
	if err != nil {
		return fmt.Errorf("filter unsynced games: %w", err)
	}
	unsyncedSet := make(map[string]struct{}, len(unsyncedIDs))
	for _, id := range unsyncedIDs {
		unsyncedSet[id] = struct{}{}
	}

	pending := make([]RawGame, 0, len(unsyncedIDs))
	for _, g := range finals {
		if _, ok := unsyncedSet[g.ExternalID]; ok {
			pending = append(pending, g)
		}
	}

	alreadySynced := len(finals) - len(pending)
	log.RecordsProcessed += len(finals)
	log.RecordsSkipped += alreadySynced

	if !emit(ProgressEvent{Type: ProgressStart, Phase: "games", Total: len(pending), Skipped: alreadySynced}) {
		return nil
	}

	for i, raw := range pending {
		if ctx.Err() != nil {
			m.logger.InfoContext(ctx, "season sync cancelled",
				"source", source, "season", season.Name, "done", i, "total", len(pending))
			return nil
		}
		if !emit(ProgressEvent{Type: ProgressProgress, Current: i + 1, Total: len(pending), GameExternalID: raw.ExternalID, Status: raw.Status}) {
			return nil
		}

		created, err := m.syncOneGame(ctx, reg, raw, season, includePBP)
		if err != nil {
			log.RecordsSkipped++
			m.logger.WarnContext(ctx, "game sync failed, continuing",
				"source", source, "game", raw.ExternalID, "error", err)
			if !emit(ProgressEvent{Type: ProgressError, GameExternalID: raw.ExternalID, Error: err.Error()}) {
				return nil
			}
			continue
		}

		if created {
			log.RecordsCreated++
		} else {
			log.RecordsUpdated++
		}
		if !emit(ProgressEvent{Type: ProgressSynced, GameExternalID: raw.ExternalID}) {
			return nil
		}
	}

	return nil
}

// syncOneGame ingests one game end to end: game row, box score, optional
// PBP, tracker mark. PBP failure is non-fatal. created reports whether
// the canonical game row was new.
func (m *SyncManager) syncOneGame(ctx context.Context, reg SourceRegistration, raw RawGame, season *league.Season, includePBP bool) (bool, error) {
	source := reg.Adapter.Source()

	box, err := reg.Adapter.GetGameBoxScore(ctx, raw.ExternalID)
	if err != nil {
		return false, fmt.Errorf("fetch box score: %w", err)
	}

	// The box score's game record carries the authoritative final scores;
	// schedule fields fill anything it omits.
	merged := box.Game
	if merged.ExternalID == "" {
		merged.ExternalID = raw.ExternalID
	}
	if merged.HomeTeamExternalID == "" {
		merged.HomeTeamExternalID = raw.HomeTeamExternalID
		merged.HomeTeamName = raw.HomeTeamName
	}
	if merged.AwayTeamExternalID == "" {
		merged.AwayTeamExternalID = raw.AwayTeamExternalID
		merged.AwayTeamName = raw.AwayTeamName
	}
	if merged.GameDate.IsZero() {
		merged.GameDate = raw.GameDate
	}
	if merged.HomeScore == nil {
		merged.HomeScore = raw.HomeScore
	}
	if merged.AwayScore == nil {
		merged.AwayScore = raw.AwayScore
	}

	synced, created, err := m.gameSyncer.SyncGame(ctx, merged, season.ID, source)
	if err != nil {
		return false, err
	}
	if _, err := m.gameSyncer.SyncBoxScore(ctx, box, synced, source); err != nil {
		return false, err
	}

	if includePBP {
		events, jerseys, err := reg.Adapter.GetGamePBP(ctx, raw.ExternalID)
		if err != nil {
			m.logger.WarnContext(ctx, "pbp fetch failed, game stays synced",
				"source", source, "game", raw.ExternalID, "error", err)
		} else if _, err := m.gameSyncer.SyncPBP(ctx, events, jerseys, synced, source); err != nil {
			m.logger.WarnContext(ctx, "pbp sync failed, game stays synced",
				"source", source, "game", raw.ExternalID, "error", err)
		}
	}

	mark := synclog.TrackedGame{
		Source:         source,
		GameExternalID: raw.ExternalID,
		GameID:         synced.ID,
		SyncedAt:       m.now().UTC(),
	}
	if err := m.tracker.MarkSynced(ctx, mark); err != nil {
		return false, fmt.Errorf("mark game synced: %w", err)
	}
	return created, nil
}

// SyncGame force-syncs a single game, bypassing the tracker check.
func (m *SyncManager) SyncGame(ctx context.Context, source, gameExternalID string, includePBP bool) (*synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncGame")
	defer span.End()

	reg, err := m.adapter(source)
	if err != nil {
		return nil, err
	}

	box, err := reg.Adapter.GetGameBoxScore(ctx, gameExternalID)
	if err != nil {
		return nil, fmt.Errorf("fetch box score: %w", err)
	}

	seasonExternalID := box.Game.SeasonExternalID
	if seasonExternalID == "" {
		seasonExternalID, err = m.currentSeasonExternalID(ctx, reg.Adapter)
		if err != nil {
			return nil, err
		}
	}
	season, _, err := m.resolveSeason(ctx, reg, seasonExternalID)
	if err != nil {
		return nil, err
	}

	log := m.openLog(ctx, source, synclog.EntityGame, &season.ID, nil)
	if log == nil {
		return nil, fmt.Errorf("open sync log: %w", ErrDependencyUnavailable)
	}

	raw := box.Game
	if raw.ExternalID == "" {
		raw.ExternalID = gameExternalID
	}
	log.RecordsProcessed = 1
	created, err := m.syncOneGame(ctx, reg, raw, season, includePBP)
	if err != nil {
		log.RecordsSkipped = 1
		m.closeLogFailed(ctx, log, err)
		return log, err
	}

	if created {
		log.RecordsCreated = 1
	} else {
		log.RecordsUpdated = 1
	}
	m.closeLogCompleted(ctx, log)
	return log, nil
}

// SyncTeams syncs only the team list of a season.
func (m *SyncManager) SyncTeams(ctx context.Context, source, seasonExternalID string) (*synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncTeams")
	defer span.End()

	reg, err := m.adapter(source)
	if err != nil {
		return nil, err
	}
	season, sourceSeasonID, err := m.resolveSeason(ctx, reg, seasonExternalID)
	if err != nil {
		return nil, err
	}

	log := m.openLog(ctx, source, synclog.EntityTeam, &season.ID, nil)
	if log == nil {
		return nil, fmt.Errorf("open sync log: %w", ErrDependencyUnavailable)
	}

	if err := m.syncTeamsForSeason(ctx, reg, season, sourceSeasonID, log); err != nil {
		m.closeLogFailed(ctx, log, err)
		return log, err
	}
	m.closeLogCompleted(ctx, log)
	return log, nil
}

func (m *SyncManager) syncTeamsForSeason(ctx context.Context, reg SourceRegistration, season *league.Season, sourceSeasonID string, log *synclog.SyncLog) error {
	teams, err := reg.Adapter.GetTeams(ctx, sourceSeasonID)
	if err != nil {
		return fmt.Errorf("fetch teams: %w", err)
	}

	source := reg.Adapter.Source()
	for _, raw := range teams {
		_, created, err := m.teamSyncer.SyncTeamSeason(ctx, raw, season.ID, source)
		if err != nil {
			return fmt.Errorf("sync team %s: %w", raw.ExternalID, err)
		}
		log.RecordsProcessed++
		if created {
			log.RecordsCreated++
		} else {
			log.RecordsUpdated++
		}
	}
	return nil
}

// SyncRecent ingests the final games of the last N days, grouped by the
// season they belong to.
func (m *SyncManager) SyncRecent(ctx context.Context, source string, days int, includePBP bool) (*synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncRecent")
	defer span.End()

	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	reg, err := m.adapter(source)
	if err != nil {
		return nil, err
	}

	since := m.now().UTC().AddDate(0, 0, -days)
	recent, err := reg.Adapter.GetGamesSince(ctx, since, "")
	if err != nil {
		return nil, fmt.Errorf("fetch recent games: %w", err)
	}

	log := m.openLog(ctx, source, synclog.EntityGame, nil, nil)
	if log == nil {
		return nil, fmt.Errorf("open sync log: %w", ErrDependencyUnavailable)
	}

	bySeason := make(map[string][]RawGame)
	seasonOrder := make([]string, 0, 2)
	for _, g := range recent {
		key := g.SeasonExternalID
		if _, ok := bySeason[key]; !ok {
			seasonOrder = append(seasonOrder, key)
		}
		bySeason[key] = append(bySeason[key], g)
	}
	sort.Strings(seasonOrder)

	var firstErr error
	for _, seasonKey := range seasonOrder {
		games := bySeason[seasonKey]
		if seasonKey == "" {
			seasonKey, err = m.currentSeasonExternalID(ctx, reg.Adapter)
			if err != nil {
				firstErr = err
				continue
			}
		}
		season, _, err := m.resolveSeason(ctx, reg, seasonKey)
		if err != nil {
			firstErr = err
			continue
		}

		externalIDs := make([]string, 0, len(games))
		for _, g := range games {
			externalIDs = append(externalIDs, g.ExternalID)
		}
		unsynced, err := m.tracker.FilterUnsynced(ctx, source, externalIDs)
		if err != nil {
			firstErr = err
			continue
		}
		unsyncedSet := make(map[string]struct{}, len(unsynced))
		for _, id := range unsynced {
			unsyncedSet[id] = struct{}{}
		}

		for _, raw := range games {
			log.RecordsProcessed++
			if _, ok := unsyncedSet[raw.ExternalID]; !ok {
				log.RecordsSkipped++
				continue
			}
			created, err := m.syncOneGame(ctx, reg, raw, season, includePBP)
			if err != nil {
				log.RecordsSkipped++
				m.logger.WarnContext(ctx, "recent game sync failed, continuing",
					"source", source, "game", raw.ExternalID, "error", err)
				continue
			}
			if created {
				log.RecordsCreated++
			} else {
				log.RecordsUpdated++
			}
		}
	}

	if firstErr != nil {
		m.closeLogFailed(ctx, log, firstErr)
		return log, firstErr
	}
	m.closeLogCompleted(ctx, log)
	return log, nil
}

// SyncPlayerInfo refreshes roster membership and merged biographical data
// for one team season.
func (m *SyncManager) SyncPlayerInfo(ctx context.Context, teamID, seasonID string) (*synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncPlayerInfo")
	defer span.End()

	subject, err := m.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("lookup team %s: %w", teamID, err)
	}
	if subject == nil {
		return nil, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	log := m.openLog(ctx, "all", synclog.EntityPlayerInfo, &seasonID, nil)
	if log == nil {
		return nil, fmt.Errorf("open sync log: %w", ErrDependencyUnavailable)
	}

	if err := m.syncRosters(ctx, subject, seasonID, log); err != nil {
		m.closeLogFailed(ctx, log, err)
		return log, err
	}

	roster, err := m.players.ListByTeamSeason(ctx, teamID, seasonID)
	if err != nil {
		m.closeLogFailed(ctx, log, err)
		return log, fmt.Errorf("list roster: %w", err)
	}

	for _, subjectPlayer := range roster {
		log.RecordsProcessed++
		delta, err := m.playerInfo.UpdatePlayerFromSources(ctx, subjectPlayer)
		if err != nil {
			log.RecordsSkipped++
			m.logger.WarnContext(ctx, "player info merge failed, continuing",
				"player_id", subjectPlayer.ID, "error", err)
			continue
		}
		if len(delta) == 0 {
			continue
		}
		applyPlayerDelta(&subjectPlayer, delta)
		if err := m.players.Update(ctx, subjectPlayer); err != nil {
			log.RecordsSkipped++
			m.logger.WarnContext(ctx, "player update failed, continuing",
				"player_id", subjectPlayer.ID, "error", err)
			continue
		}
		log.RecordsUpdated++
	}

	m.closeLogCompleted(ctx, log)
	return log, nil
}

func (m *SyncManager) syncRosters(ctx context.Context, subject *team.Team, seasonID string, log *synclog.SyncLog) error {
	if m.playerInfo == nil {
		return nil
	}
	for _, adapter := range m.playerInfo.adapters {
		source := adapter.Source()
		externalID, ok := subject.ExternalID(source)
		if !ok {
			continue
		}

		roster, err := adapter.GetTeamRoster(ctx, externalID, false)
		if err != nil {
			m.logger.WarnContext(ctx, "roster fetch failed, skipping source",
				"source", source, "team_id", subject.ID, "error", err)
			continue
		}

		for _, entry := range roster {
			ref := PlayerRef{
				ExternalID: entry.PlayerExternalID,
				Name:       entry.PlayerName,
				TeamID:     subject.ID,
				SeasonID:   seasonID,
			}
			resolved, created, err := m.gameSyncer.dedup.Resolve(ctx, source, ref)
			if err != nil {
				log.RecordsSkipped++
				continue
			}
			history := player.PlayerTeamHistory{
				PlayerID: resolved.ID,
				TeamID:   subject.ID,
				SeasonID: seasonID,
			}
			if entry.Info != nil {
				history.JerseyNumber = entry.Info.JerseyNumber
				history.Position = entry.Info.Position
			}
			if err := m.players.UpsertHistory(ctx, history); err != nil {
				log.RecordsSkipped++
				continue
			}
			if created {
				log.RecordsCreated++
			}
		}
	}
	return nil
}

func applyPlayerDelta(subject *player.Player, delta map[string]any) {
	if v, ok := delta["first_name"].(string); ok {
		subject.FirstName = v
	}
	if v, ok := delta["last_name"].(string); ok {
		subject.LastName = v
	}
	if v, ok := delta["birth_date"].(time.Time); ok {
		subject.BirthDate = &v
	}
	if v, ok := delta["height_cm"].(int); ok {
		subject.HeightCM = &v
	}
	if v, ok := delta["position"].(string); ok {
		subject.Position = v
	}
}

// SyncTaskResult is one source's outcome inside SyncAll.
type SyncTaskResult struct {
	Source   string
	Status   string
	Log      *synclog.SyncLog
	Err      string
	Duration time.Duration
}

// SyncAll syncs the current season of every registered source on the
// worker pool and reports per-source results in registration order.
func (m *SyncManager) SyncAll(ctx context.Context, includePBP bool) []SyncTaskResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncAll")
	defer span.End()

	results := make([]SyncTaskResult, len(m.order))
	var wg sync.WaitGroup

	for i, source := range m.order {
		i, source := i, source
		wg.Add(1)
		task := func() {
			defer wg.Done()
			started := m.now()
			result := SyncTaskResult{Source: source, Status: synclog.StatusCompleted}

			seasonExternalID, err := m.currentSeasonExternalID(ctx, m.adapters[source].Adapter)
			if err == nil {
				result.Log, err = m.SyncSeason(ctx, source, seasonExternalID, includePBP)
			}
			if err != nil {
				result.Status = synclog.StatusFailed
				result.Err = err.Error()
			}
			result.Duration = m.now().Sub(started)
			results[i] = result
		}

		if m.pool != nil {
			if err := m.pool.Submit(task); err != nil {
				wg.Done()
				results[i] = SyncTaskResult{Source: source, Status: synclog.StatusFailed, Err: err.Error()}
			}
		} else {
			go task()
		}
	}

	wg.Wait()
	return results
}

// currentSeasonExternalID picks the season whose date span covers now,
// falling back to the latest by start date.
func (m *SyncManager) currentSeasonExternalID(ctx context.Context, adapter LeagueAdapter) (string, error) {
	seasons, err := adapter.GetSeasons(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch seasons: %w", err)
	}
	if len(seasons) == 0 {
		return "", fmt.Errorf("%w: source %s has no seasons", ErrNotFound, adapter.Source())
	}

	now := m.now().UTC()
	var latest RawSeason
	for _, s := range seasons {
		if !s.StartDate.IsZero() && !s.EndDate.IsZero() && !now.Before(s.StartDate) && !now.After(s.EndDate) {
			return s.ExternalID, nil
		}
		if s.StartDate.After(latest.StartDate) || latest.ExternalID == "" {
			latest = s
		}
	}
	return latest.ExternalID, nil
}

// resolveSeason upserts the source's league lazily and resolves or
// creates the canonical season. The second return value is the
// provider-facing season identifier for follow-up calls.
func (m *SyncManager) resolveSeason(ctx context.Context, reg SourceRegistration, seasonExternalID string) (*league.Season, string, error) {
	name, err := league.NormalizeSeasonName(seasonExternalID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	seed := reg.League
	existing, err := m.leagues.GetByCode(ctx, seed.Code)
	if err != nil {
		return nil, "", fmt.Errorf("lookup league %s: %w", seed.Code, err)
	}
	if existing == nil {
		seed.ID = m.ids.NewID()
		if err := m.leagues.Upsert(ctx, seed); err != nil {
			return nil, "", fmt.Errorf("create league %s: %w", seed.Code, err)
		}
		existing = &seed
	}

	sourceSeasonID := seasonExternalID
	season, err := m.leagues.GetSeason(ctx, existing.ID, name)
	if err != nil {
		return nil, "", fmt.Errorf("lookup season %s: %w", name, err)
	}
	if season != nil {
		return season, sourceSeasonID, nil
	}

	startYear, err := league.StartYear(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created := league.Season{
		ID:       m.ids.NewID(),
		LeagueID: existing.ID,
		Name:     name,
		// September through June unless the source publishes exact dates.
		StartDate: time.Date(startYear, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
	if raw, ok := m.findRawSeason(ctx, reg.Adapter, name); ok {
		if !raw.StartDate.IsZero() {
			created.StartDate = raw.StartDate
		}
		if !raw.EndDate.IsZero() {
			created.EndDate = raw.EndDate
		}
		if raw.SourceID != "" {
			sourceSeasonID = raw.SourceID
		}
	}

	now := m.now().UTC()
	created.IsCurrent = !now.Before(created.StartDate) && !now.After(created.EndDate)
	if err := m.leagues.UpsertSeason(ctx, created); err != nil {
		return nil, "", fmt.Errorf("create season %s: %w", name, err)
	}
	return &created, sourceSeasonID, nil
}

func (m *SyncManager) findRawSeason(ctx context.Context, adapter LeagueAdapter, name string) (RawSeason, bool) {
	seasons, err := adapter.GetSeasons(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "season list fetch failed, using defaults",
			"source", adapter.Source(), "error", err)
		return RawSeason{}, false
	}
	for _, s := range seasons {
		if s.Name == name || s.ExternalID == name {
			return s, true
		}
	}
	return RawSeason{}, false
}

func (m *SyncManager) openLog(ctx context.Context, source, entityType string, seasonID, gameID *string) *synclog.SyncLog {
	log := &synclog.SyncLog{
		ID:         m.ids.NewID(),
		Source:     source,
		EntityType: entityType,
		SeasonID:   seasonID,
		GameID:     gameID,
		Status:     synclog.StatusRunning,
		StartedAt:  m.now().UTC(),
	}
	if err := m.syncLogs.Create(ctx, *log); err != nil {
		m.logger.ErrorContext(ctx, "failed to open sync log",
			"source", source, "entity", entityType, "error", err)
		return nil
	}
	return log
}

func (m *SyncManager) closeLogCompleted(ctx context.Context, log *synclog.SyncLog) {
	now := m.now().UTC()
	log.Status = synclog.StatusCompleted
	log.CompletedAt = &now
	if err := m.syncLogs.Update(ctx, *log); err != nil {
		m.logger.ErrorContext(ctx, "failed to close sync log", "log_id", log.ID, "error", err)
	}
}

func (m *SyncManager) closeLogFailed(ctx context.Context, log *synclog.SyncLog, cause error) {
	now := m.now().UTC()
	log.Status = synclog.StatusFailed
	log.CompletedAt = &now
	log.ErrorMessage = cause.Error()
	log.ErrorDetails = string(debug.Stack())
	if err := m.syncLogs.Update(ctx, *log); err != nil {
		m.logger.ErrorContext(ctx, "failed to close sync log", "log_id", log.ID, "error", err)
	}
}
