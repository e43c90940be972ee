package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sync/sources", handler.ListSources)
	mux.HandleFunc("POST /v1/sync/season", handler.TriggerSeasonSync)
	mux.HandleFunc("GET /v1/sync/season/stream", handler.StreamSeasonSync)
	mux.HandleFunc("POST /v1/sync/game", handler.TriggerGameSync)
	mux.HandleFunc("POST /v1/sync/teams", handler.TriggerTeamSync)
	mux.HandleFunc("POST /v1/sync/recent", handler.TriggerRecentSync)
	mux.HandleFunc("POST /v1/sync/player-info", handler.TriggerPlayerInfoSync)
	mux.HandleFunc("POST /v1/sync/all", handler.TriggerFullSync)
	mux.HandleFunc("GET /v1/sync/logs", handler.ListSyncLogs)
}
