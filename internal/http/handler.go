package httpapp

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/skanderbk/tartil/internal/bulk"
	"github.com/skanderbk/tartil/internal/catalog"
	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/download"
	"github.com/skanderbk/tartil/internal/logger"
	"github.com/skanderbk/tartil/internal/source"
	"github.com/skanderbk/tartil/internal/store"
)

type Handler struct {
	Store    *store.DB
	Resolver *source.Resolver
	Pipeline *download.Pipeline
	Bulk     *bulk.Orchestrator
	Catalog  catalog.Provider
	Logger   *logger.Logger

	// Progress of in-flight single downloads, keyed by cache key.
	// Entries exist only while a fetch is active.
	mu       sync.Mutex
	progress map[string]domain.DownloadState
}

func NewHandler(db *store.DB, res *source.Resolver, pl *download.Pipeline, orch *bulk.Orchestrator, cat catalog.Provider, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Store:    db,
		Resolver: res,
		Pipeline: pl,
		Bulk:     orch,
		Catalog:  cat,
		Logger:   log.WithComponent("http"),
		progress: make(map[string]domain.DownloadState),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/chapters", h.ListChapters)
	r.Get("/api/reciters", h.ListReciters)
	r.Post("/api/reciters", h.UpsertReciter)
	r.Get("/api/reciters/active", h.ActiveReciter)
	r.Put("/api/reciters/active", h.SetActiveReciter)

	r.Get("/api/resolve/{reciter}/{chapter}", h.Resolve)
	r.Get("/api/audio/{key}", h.ServeAudio)
	r.Get("/api/timeline/{chapter}", h.ChapterTimeline)

	r.Post("/api/download/{reciter}/{chapter}", h.Download)
	r.Get("/api/download/state", h.DownloadState)

	r.Get("/api/cache", h.ListCache)
	r.Delete("/api/cache/{key}", h.DeleteCached)
	r.Get("/api/cache/reciter/{reciter}/count", h.ReciterCount)

	r.Post("/api/bulk/{reciter}", h.StartBulk)
	r.Get("/api/bulk", h.BulkState)
	r.Post("/api/bulk/pause", h.PauseBulk)
	r.Post("/api/bulk/resume", h.ResumeBulk)
	r.Post("/api/bulk/cancel", h.CancelBulk)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) setProgress(state domain.DownloadState) {
	h.mu.Lock()
	h.progress[state.Key] = state
	h.mu.Unlock()
}

func (h *Handler) clearProgress(key string) {
	h.mu.Lock()
	delete(h.progress, key)
	h.mu.Unlock()
}

func (h *Handler) activeProgress() []domain.DownloadState {
	h.mu.Lock()
	defer h.mu.Unlock()

	states := make([]domain.DownloadState, 0, len(h.progress))
	for _, s := range h.progress {
		states = append(states, s)
	}
	return states
}
