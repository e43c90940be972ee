package httpapi

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtsync/courtsync/internal/usecase"
)

type stubSyncService struct {
	log     *synclog.SyncLog
	err     error
	events  []usecase.ProgressEvent
	lastReq string
}

func (s *stubSyncService) Sources() []string { return []string{"winner", "euroleague"} }

func (s *stubSyncService) SyncSeason(_ context.Context, source, seasonID string, includePBP bool) (*synclog.SyncLog, error) {
	s.lastReq = fmt.Sprintf("season %s/%s pbp=%v", source, seasonID, includePBP)
	return s.log, s.err
}

func (s *stubSyncService) SyncSeasonWithProgress(_ context.Context, source, seasonID string, _ bool) <-chan usecase.ProgressEvent {
	s.lastReq = fmt.Sprintf("stream %s/%s", source, seasonID)
	ch := make(chan usecase.ProgressEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch
}

func (s *stubSyncService) SyncGame(_ context.Context, source, gameID string, includePBP bool) (*synclog.SyncLog, error) {
	s.lastReq = fmt.Sprintf("game %s/%s pbp=%v", source, gameID, includePBP)
	return s.log, s.err
}

func (s *stubSyncService) SyncTeams(_ context.Context, source, seasonID string) (*synclog.SyncLog, error) {
	s.lastReq = fmt.Sprintf("teams %s/%s", source, seasonID)
	return s.log, s.err
}

func (s *stubSyncService) SyncRecent(_ context.Context, source string, days int, includePBP bool) (*synclog.SyncLog, error) {
	s.lastReq = fmt.Sprintf("recent %s days=%d pbp=%v", source, days, includePBP)
	return s.log, s.err
}

func (s *stubSyncService) SyncPlayerInfo(_ context.Context, teamID, seasonID string) (*synclog.SyncLog, error) {
	s.lastReq = fmt.Sprintf("playerinfo %s/%s", teamID, seasonID)
	return s.log, s.err
}

func (s *stubSyncService) SyncAll(_ context.Context, includePBP bool) []usecase.SyncTaskResult {
	s.lastReq = fmt.Sprintf("all pbp=%v", includePBP)
	return []usecase.SyncTaskResult{
		{Source: "winner", Status: synclog.StatusCompleted, Log: s.log, Duration: time.Second},
	}
}

func completedLog() *synclog.SyncLog {
	done := time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)
	return &synclog.SyncLog{
		ID:               "log1",
		Source:           "winner",
		EntityType:       synclog.EntitySeason,
		Status:           synclog.StatusCompleted,
		StartedAt:        done.Add(-time.Minute),
		CompletedAt:      &done,
		RecordsProcessed: 2,
		RecordsCreated:   2,
	}
}

func newTestRouter(stub *stubSyncService, logs synclog.Repository) http.Handler {
	if logs == nil {
		logs = memory.NewSyncLogRepository()
	}
	handler := NewHandler(stub, logs, nil)
	return NewRouter(handler, nil, []string{"*"})
}

func TestTriggerSeasonSync(t *testing.T) {
	stub := &stubSyncService{log: completedLog()}
	router := newTestRouter(stub, nil)

	body := strings.NewReader(`{"source":"winner","season_id":"2024-25"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sync/season", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastReq != "season winner/2024-25 pbp=true" {
		t.Fatalf("lastReq = %q", stub.lastReq)
	}

	var envelope struct {
		Data syncLogDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.ID != "log1" || envelope.Data.Status != synclog.StatusCompleted {
		t.Fatalf("data = %+v", envelope.Data)
	}
}

func TestTriggerSeasonSyncValidation(t *testing.T) {
	stub := &stubSyncService{log: completedLog()}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/season", strings.NewReader(`{"season_id":"2024-25"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if stub.lastReq != "" {
		t.Fatalf("service should not be called, got %q", stub.lastReq)
	}
}

func TestTriggerSeasonSyncConflict(t *testing.T) {
	stub := &stubSyncService{err: fmt.Errorf("%w: source=winner", usecase.ErrSyncAlreadyRunning)}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/season", strings.NewReader(`{"source":"winner"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestTriggerGameSyncDisablesPBP(t *testing.T) {
	stub := &stubSyncService{log: completedLog()}
	router := newTestRouter(stub, nil)

	body := strings.NewReader(`{"source":"winner","game_id":"25119","include_pbp":false}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sync/game", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastReq != "game winner/25119 pbp=false" {
		t.Fatalf("lastReq = %q", stub.lastReq)
	}
}

func TestTriggerRecentSyncDefaultsDays(t *testing.T) {
	stub := &stubSyncService{log: completedLog()}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/recent", strings.NewReader(`{"source":"euroleague"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastReq != "recent euroleague days=3 pbp=true" {
		t.Fatalf("lastReq = %q", stub.lastReq)
	}
}

func TestTriggerFullSyncEmptyBody(t *testing.T) {
	stub := &stubSyncService{log: completedLog()}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastReq != "all pbp=true" {
		t.Fatalf("lastReq = %q", stub.lastReq)
	}

	var envelope struct {
		Data []syncTaskResultDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Source != "winner" {
		t.Fatalf("data = %+v", envelope.Data)
	}
}

func TestListSyncLogs(t *testing.T) {
	logs := memory.NewSyncLogRepository()
	seeded := *completedLog()
	if err := logs.Create(context.Background(), seeded); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	stub := &stubSyncService{}
	router := newTestRouter(stub, logs)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/logs?source=winner", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []syncLogDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "log1" {
		t.Fatalf("data = %+v", envelope.Data)
	}
}

func TestListSyncLogsRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&stubSyncService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/logs?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStreamSeasonSync(t *testing.T) {
	stub := &stubSyncService{events: []usecase.ProgressEvent{
		{Type: usecase.ProgressStart, Total: 2},
		{Type: usecase.ProgressSynced, GameExternalID: "25119", Current: 1},
		{Type: usecase.ProgressComplete, Log: completedLog()},
	}}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/season/stream?source=winner&season_id=2024-25", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}

	var eventNames []string
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			eventNames = append(eventNames, strings.TrimPrefix(line, "event: "))
		}
	}
	want := []string{usecase.ProgressStart, usecase.ProgressSynced, usecase.ProgressComplete}
	if len(eventNames) != len(want) {
		t.Fatalf("events = %v, want %v", eventNames, want)
	}
	for i := range want {
		if eventNames[i] != want[i] {
			t.Fatalf("events = %v, want %v", eventNames, want)
		}
	}
}

func TestStreamSeasonSyncRequiresSource(t *testing.T) {
	router := newTestRouter(&stubSyncService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/season/stream", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
