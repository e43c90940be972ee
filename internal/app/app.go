package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"

	"github.com/courtsync/courtsync/external/euroleague"
	"github.com/courtsync/courtsync/external/winner"
	"github.com/courtsync/courtsync/internal/config"
	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/postgres"
	"github.com/courtsync/courtsync/internal/interfaces/httpapi"
	idgen "github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
	"github.com/courtsync/courtsync/internal/platform/ratelimit"
	"github.com/courtsync/courtsync/internal/platform/resilience"
	"github.com/courtsync/courtsync/internal/usecase"
)

// App holds the wired service graph and owns its closable resources.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	DB      *sqlx.DB
	Manager *usecase.SyncManager
	Server  *http.Server

	pool *ants.Pool
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	leagueRepo := postgres.NewLeagueRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	statsRepo := postgres.NewBoxscoreRepository(db)
	pbpRepo := postgres.NewPBPRepository(db)
	rawCacheRepo := postgres.NewRawCacheRepository(db)
	syncLogRepo := postgres.NewSyncLogRepository(db)
	trackerRepo := postgres.NewTrackerRepository(db)

	ids := idgen.NewUUIDGenerator()
	fetchCache := usecase.NewFetchCache(rawCacheRepo, ids, logger)

	var sources []usecase.SourceRegistration
	var infoAdapters []usecase.PlayerInfoAdapter

	if cfg.Winner.Enabled {
		limits := ratelimit.NewRegistry(map[ratelimit.Class]ratelimit.Budget{
			ratelimit.ClassAPI:    {RPS: cfg.Winner.APIRPS, Burst: cfg.Winner.APIBurst},
			ratelimit.ClassScrape: {RPS: cfg.Winner.ScrapeRPS, Burst: cfg.Winner.ScrapeBurst},
		})
		client := winner.NewClient(winner.ClientConfig{
			APIBaseURL:    cfg.WinnerAPIBaseURL,
			ScrapeBaseURL: cfg.WinnerScrapeBaseURL,
			Timeout:       cfg.Winner.Timeout,
			MaxRetries:    cfg.Winner.MaxRetries,
			BackoffBase:   cfg.Winner.BackoffBase,
			BackoffMax:    cfg.Winner.BackoffMax,
			APILimiter:    limits.For(winner.Source, ratelimit.ClassAPI),
			ScrapeLimiter: limits.For(winner.Source, ratelimit.ClassScrape),
			Cache:         fetchCache,
			Breaker:       breakerConfig(cfg.Winner),
			Logger:        logger,
		})
		adapter := winner.NewAdapter(client, logger)
		sources = append(sources, usecase.SourceRegistration{
			Adapter: adapter,
			League: league.League{
				Code:    winner.Source,
				Name:    "Israeli Basketball Premier League",
				Country: "IL",
			},
		})
		infoAdapters = append(infoAdapters, adapter)
	}

	if cfg.Euroleague.Enabled {
		limits := ratelimit.NewRegistry(map[ratelimit.Class]ratelimit.Budget{
			ratelimit.ClassAPI: {RPS: cfg.Euroleague.APIRPS, Burst: cfg.Euroleague.APIBurst},
		})
		client := euroleague.NewClient(euroleague.ClientConfig{
			BaseURL:     cfg.EuroleagueBaseURL,
			Timeout:     cfg.Euroleague.Timeout,
			MaxRetries:  cfg.Euroleague.MaxRetries,
			BackoffBase: cfg.Euroleague.BackoffBase,
			BackoffMax:  cfg.Euroleague.BackoffMax,
			Limiter:     limits.For(euroleague.Source, ratelimit.ClassAPI),
			Cache:       fetchCache,
			Breaker:     breakerConfig(cfg.Euroleague),
			Logger:      logger,
		})
		adapter := euroleague.NewAdapter(client, euroleague.AdapterConfig{
			Competition: cfg.EuroleagueCompetition,
			SeasonDepth: cfg.EuroleagueSeasonDepth,
			Logger:      logger,
		})
		sources = append(sources, usecase.SourceRegistration{
			Adapter: adapter,
			League: league.League{
				Code:    euroleague.Source,
				Name:    "EuroLeague",
				Country: "EU",
			},
		})
		infoAdapters = append(infoAdapters, adapter)
	}

	if len(sources) == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("no sync sources enabled")
	}

	matcher := usecase.NewTeamMatcher(teamRepo, syncLogRepo, ids, logger)
	teamSyncer := usecase.NewTeamSyncer(matcher, teamRepo, logger)
	dedup := usecase.NewPlayerDeduplicator(playerRepo, ids, logger)
	gameSyncer := usecase.NewGameSyncer(teamSyncer, dedup, teamRepo, gameRepo, playerRepo, statsRepo, pbpRepo, ids, logger)
	playerInfo := usecase.NewPlayerInfoService(infoAdapters, logger)

	pool, err := ants.NewPool(cfg.SyncWorkers)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	manager := usecase.NewSyncManager(usecase.SyncManagerDeps{
		Sources:    sources,
		Leagues:    leagueRepo,
		Teams:      teamRepo,
		Games:      gameRepo,
		Players:    playerRepo,
		TeamSyncer: teamSyncer,
		GameSyncer: gameSyncer,
		Tracker:    trackerRepo,
		SyncLogs:   syncLogRepo,
		PlayerInfo: playerInfo,
		IDs:        ids,
		Pool:       pool,
		Logger:     logger,
	})

	handler := httpapi.NewHandler(manager, syncLogRepo, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		pool.Release()
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Manager: manager,
		Server:  server,
		pool:    pool,
	}, nil
}

func (a *App) Close() error {
	if a.pool != nil {
		a.pool.Release()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func breakerConfig(src config.SourceConfig) resilience.BreakerConfig {
	return resilience.BreakerConfig{
		Enabled:       src.CircuitEnabled,
		TripThreshold: src.CircuitFailureCount,
		Cooldown:      src.CircuitOpenTimeout,
		ProbeLimit:    src.CircuitHalfOpenMaxReq,
	}
}
