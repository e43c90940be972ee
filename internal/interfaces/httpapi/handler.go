package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/platform/logging"
	"github.com/courtsync/courtsync/internal/usecase"
	"github.com/go-playground/validator/v10"
)

const (
	defaultRecentDays  = 3
	defaultLogListSize = 50
	maxLogListSize     = 500
)

// SyncService is the slice of the sync manager the API exposes.
type SyncService interface {
	Sources() []string
	SyncSeason(ctx context.Context, source, seasonExternalID string, includePBP bool) (*synclog.SyncLog, error)
	SyncSeasonWithProgress(ctx context.Context, source, seasonExternalID string, includePBP bool) <-chan usecase.ProgressEvent
	SyncGame(ctx context.Context, source, gameExternalID string, includePBP bool) (*synclog.SyncLog, error)
	SyncTeams(ctx context.Context, source, seasonExternalID string) (*synclog.SyncLog, error)
	SyncRecent(ctx context.Context, source string, days int, includePBP bool) (*synclog.SyncLog, error)
	SyncPlayerInfo(ctx context.Context, teamID, seasonID string) (*synclog.SyncLog, error)
	SyncAll(ctx context.Context, includePBP bool) []usecase.SyncTaskResult
}

type Handler struct {
	sync      SyncService
	syncLogs  synclog.Repository
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(sync SyncService, syncLogs synclog.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		sync:      sync,
		syncLogs:  syncLogs,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSources")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.sync.Sources())
}

func (h *Handler) TriggerSeasonSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSeasonSync")
	defer span.End()

	var req syncSeasonRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	log, err := h.sync.SyncSeason(ctx, req.Source, req.SeasonID, includePBP(req.IncludePBP))
	if err != nil {
		h.logger.WarnContext(ctx, "season sync failed",
			"source", req.Source, "season", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLogToDTO(log))
}

func (h *Handler) TriggerGameSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerGameSync")
	defer span.End()

	var req syncGameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	log, err := h.sync.SyncGame(ctx, req.Source, req.GameID, includePBP(req.IncludePBP))
	if err != nil {
		h.logger.WarnContext(ctx, "game sync failed",
			"source", req.Source, "game", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLogToDTO(log))
}

func (h *Handler) TriggerTeamSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerTeamSync")
	defer span.End()

	var req syncTeamsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	log, err := h.sync.SyncTeams(ctx, req.Source, req.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "team sync failed",
			"source", req.Source, "season", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLogToDTO(log))
}

func (h *Handler) TriggerRecentSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerRecentSync")
	defer span.End()

	var req syncRecentRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Days == 0 {
		req.Days = defaultRecentDays
	}

	log, err := h.sync.SyncRecent(ctx, req.Source, req.Days, includePBP(req.IncludePBP))
	if err != nil {
		h.logger.WarnContext(ctx, "recent sync failed",
			"source", req.Source, "days", req.Days, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLogToDTO(log))
}

func (h *Handler) TriggerPlayerInfoSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerPlayerInfoSync")
	defer span.End()

	var req syncPlayerInfoRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	log, err := h.sync.SyncPlayerInfo(ctx, req.TeamID, req.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "player info sync failed",
			"team_id", req.TeamID, "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncLogToDTO(log))
}

func (h *Handler) TriggerFullSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerFullSync")
	defer span.End()

	req := syncAllRequest{}
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	results := h.sync.SyncAll(ctx, includePBP(req.IncludePBP))
	items := make([]syncTaskResultDTO, 0, len(results))
	for _, res := range results {
		items = append(items, syncTaskResultDTO{
			Source:     res.Source,
			Status:     res.Status,
			Error:      res.Err,
			DurationMS: res.Duration.Milliseconds(),
			Log:        syncLogToDTO(res.Log),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSyncLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncLogs")
	defer span.End()

	source := strings.TrimSpace(r.URL.Query().Get("source"))
	limit := defaultLogListSize
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}
	if limit > maxLogListSize {
		limit = maxLogListSize
	}

	logs, err := h.syncLogs.List(ctx, source, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync logs failed", "source", source, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncLogDTO, 0, len(logs))
	for i := range logs {
		items = append(items, *syncLogToDTO(&logs[i]))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func includePBP(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}

type syncSeasonRequest struct {
	Source     string `json:"source" validate:"required"`
	SeasonID   string `json:"season_id"`
	IncludePBP *bool  `json:"include_pbp"`
}

type syncGameRequest struct {
	Source     string `json:"source" validate:"required"`
	GameID     string `json:"game_id" validate:"required"`
	IncludePBP *bool  `json:"include_pbp"`
}

type syncTeamsRequest struct {
	Source   string `json:"source" validate:"required"`
	SeasonID string `json:"season_id"`
}

type syncRecentRequest struct {
	Source     string `json:"source" validate:"required"`
	Days       int    `json:"days" validate:"omitempty,min=1,max=60"`
	IncludePBP *bool  `json:"include_pbp"`
}

type syncPlayerInfoRequest struct {
	TeamID   string `json:"team_id" validate:"required"`
	SeasonID string `json:"season_id" validate:"required"`
}

type syncAllRequest struct {
	IncludePBP *bool `json:"include_pbp"`
}

type syncLogDTO struct {
	ID               string  `json:"id"`
	Source           string  `json:"source"`
	EntityType       string  `json:"entity_type"`
	SeasonID         *string `json:"season_id,omitempty"`
	GameID           *string `json:"game_id,omitempty"`
	Status           string  `json:"status"`
	StartedAtUTC     string  `json:"started_at_utc"`
	CompletedAtUTC   string  `json:"completed_at_utc,omitempty"`
	RecordsProcessed int     `json:"records_processed"`
	RecordsCreated   int     `json:"records_created"`
	RecordsUpdated   int     `json:"records_updated"`
	RecordsSkipped   int     `json:"records_skipped"`
	ErrorMessage     string  `json:"error_message,omitempty"`
	ErrorDetails     string  `json:"error_details,omitempty"`
}

type syncTaskResultDTO struct {
	Source     string      `json:"source"`
	Status     string      `json:"status"`
	Error      string      `json:"error,omitempty"`
	DurationMS int64       `json:"duration_ms"`
	Log        *syncLogDTO `json:"sync_log,omitempty"`
}

func syncLogToDTO(v *synclog.SyncLog) *syncLogDTO {
	if v == nil {
		return nil
	}

	out := &syncLogDTO{
		ID:               v.ID,
		Source:           v.Source,
		EntityType:       v.EntityType,
		SeasonID:         v.SeasonID,
		GameID:           v.GameID,
		Status:           v.Status,
		StartedAtUTC:     v.StartedAt.UTC().Format(time.RFC3339),
		RecordsProcessed: v.RecordsProcessed,
		RecordsCreated:   v.RecordsCreated,
		RecordsUpdated:   v.RecordsUpdated,
		RecordsSkipped:   v.RecordsSkipped,
		ErrorMessage:     v.ErrorMessage,
		ErrorDetails:     v.ErrorDetails,
	}
	if v.CompletedAt != nil {
		out.CompletedAtUTC = v.CompletedAt.UTC().Format(time.RFC3339)
	}

	return out
}
