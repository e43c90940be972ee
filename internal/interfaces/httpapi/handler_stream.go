package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsync/courtsync/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// StreamSeasonSync runs a season sync and streams its progress events
// over SSE. The connection closes after the terminal complete event.
func (h *Handler) StreamSeasonSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamSeasonSync")
	defer span.End()

	query := r.URL.Query()
	source := strings.TrimSpace(query.Get("source"))
	if source == "" {
		writeError(ctx, w, fmt.Errorf("%w: source query parameter is required", usecase.ErrInvalidInput))
		return
	}
	seasonID := strings.TrimSpace(query.Get("season_id"))

	withPBP := true
	if raw := strings.TrimSpace(query.Get("include_pbp")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: include_pbp must be a boolean", usecase.ErrInvalidInput))
			return
		}
		withPBP = parsed
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: response writer does not support streaming", usecase.ErrDependencyUnavailable))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.sync.SyncSeasonWithProgress(ctx, source, seasonID, withPBP)
	for event := range events {
		if err := writeSSEEvent(w, event); err != nil {
			// Client went away. The producer stops once ctx is cancelled
			// on handler return.
			h.logger.DebugContext(ctx, "sse write failed", "source", source, "error", err)
			return
		}
		flusher.Flush()
	}
}

func writeSSEEvent(w http.ResponseWriter, event usecase.ProgressEvent) error {
	payload, err := sonic.ConfigDefault.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("event: ")
	_, _ = buf.WriteString(event.Type)
	_, _ = buf.WriteString("\ndata: ")
	_, _ = buf.Write(payload)
	_, _ = buf.WriteString("\n\n")

	_, err = w.Write(buf.B)
	return err
}
