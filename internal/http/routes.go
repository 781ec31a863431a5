package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skanderbk/tartil/internal/constants"
	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/download"
	"github.com/skanderbk/tartil/internal/store"
	"github.com/skanderbk/tartil/internal/timeline"
)

// ListChapters returns the chapter index from the content API.
func (h *Handler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.Catalog.Chapters(r.Context())
	if err != nil {
		h.Logger.Error("Failed to fetch chapters", "error", err)
		h.writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "content API unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, chapters)
}

func (h *Handler) ListReciters(w http.ResponseWriter, r *http.Request) {
	reciters, err := h.Store.ListReciters()
	if err != nil {
		h.Logger.Error("Failed to list reciters", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list reciters"})
		return
	}
	h.writeJSON(w, http.StatusOK, reciters)
}

// UpsertReciter adds or updates one reciter directory entry.
func (h *Handler) UpsertReciter(w http.ResponseWriter, r *http.Request) {
	var reciter domain.Reciter
	if err := json.NewDecoder(r.Body).Decode(&reciter); err != nil || reciter.ID == "" || reciter.Name == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "id and name are required"})
		return
	}

	if err := h.Store.UpsertReciter(&reciter); err != nil {
		h.Logger.Error("Failed to upsert reciter", "reciter", reciter.ID, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to save reciter"})
		return
	}
	h.writeJSON(w, http.StatusOK, reciter)
}

func (h *Handler) ActiveReciter(w http.ResponseWriter, r *http.Request) {
	id, err := h.Store.GetSetting(store.SettingActiveReciter)
	if err != nil {
		h.Logger.Error("Failed to read active reciter", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to read setting"})
		return
	}
	h.writeJSON(w, http.StatusOK, ActiveReciterResponse{ReciterID: id})
}

func (h *Handler) SetActiveReciter(w http.ResponseWriter, r *http.Request) {
	var req ActiveReciterResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReciterID == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "reciter_id is required"})
		return
	}

	if err := h.Store.SetSetting(store.SettingActiveReciter, req.ReciterID); err != nil {
		h.Logger.Error("Failed to save active reciter", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to save setting"})
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// Resolve reports whether playback for a reciter/chapter pair should use
// the local cache or the remote origin.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	reciterID := chi.URLParam(r, "reciter")
	chapterID, ok := h.chapterParam(w, r)
	if !ok {
		return
	}

	src := h.Resolver.Resolve(reciterID, chapterID)
	h.writeJSON(w, http.StatusOK, src)
}

// ServeAudio streams a cached recitation body.
func (h *Handler) ServeAudio(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	audio, err := h.Store.GetAudio(key)
	if err != nil {
		h.Logger.Error("Failed to load cached audio", "key", key, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to load audio"})
		return
	}
	if audio == nil {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not cached"})
		return
	}

	w.Header().Set("Content-Type", constants.MimeTypeMP3)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.Logger.Warn("Audio write interrupted", "key", key, "error", err)
	}
}

// Download fetches one chapter into the cache. The call blocks until the
// download settles; progress is visible through /api/download/state.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	reciterID := chi.URLParam(r, "reciter")
	chapterID, ok := h.chapterParam(w, r)
	if !ok {
		return
	}

	key := domain.CacheKey(reciterID, chapterID)
	req := download.Request{
		ReciterID:    reciterID,
		ReciterLabel: r.URL.Query().Get("reciter_label"),
		ChapterID:    chapterID,
		ChapterLabel: r.URL.Query().Get("chapter_label"),
		URL:          h.Resolver.RemoteURL(reciterID, chapterID),
		OnProgress:   h.setProgress,
	}
	defer h.clearProgress(key)

	if !h.Pipeline.Download(r.Context(), req) {
		h.writeJSON(w, http.StatusBadGateway, DownloadResponse{Key: key, Cached: false})
		return
	}
	h.writeJSON(w, http.StatusOK, DownloadResponse{Key: key, Cached: true})
}

func (h *Handler) DownloadState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.activeProgress())
}

func (h *Handler) ListCache(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List()
	if err != nil {
		h.Logger.Error("Failed to list cache", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list cache"})
		return
	}

	total, err := h.Store.TotalBytes()
	if err != nil {
		h.Logger.Error("Failed to compute cache size", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to compute cache size"})
		return
	}

	h.writeJSON(w, http.StatusOK, CacheListResponse{Items: items, TotalBytes: total})
}

func (h *Handler) DeleteCached(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.Store.Delete(key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not cached"})
			return
		}
		h.Logger.Error("Failed to delete cached recitation", "key", key, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to delete"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReciterCount(w http.ResponseWriter, r *http.Request) {
	reciterID := chi.URLParam(r, "reciter")

	count, err := h.Store.CountForReciter(reciterID)
	if err != nil {
		h.Logger.Error("Failed to count cached chapters", "reciter", reciterID, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to count"})
		return
	}
	h.writeJSON(w, http.StatusOK, ReciterCountResponse{ReciterID: reciterID, Count: count})
}

// StartBulk queues every chapter of the catalog for the given reciter.
// Chapters already cached are skipped before the run starts.
func (h *Handler) StartBulk(w http.ResponseWriter, r *http.Request) {
	reciterID := chi.URLParam(r, "reciter")
	reciterLabel := r.URL.Query().Get("reciter_label")

	chapters, err := h.Catalog.Chapters(r.Context())
	if err != nil {
		h.Logger.Error("Failed to fetch chapters for bulk run", "error", err)
		h.writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "content API unavailable"})
		return
	}

	items := make([]domain.BulkItem, 0, len(chapters))
	for _, c := range chapters {
		items = append(items, domain.BulkItem{ChapterID: c.ID, Label: c.Name})
	}

	// The run outlives the request that started it; cancellation goes
	// through the orchestrator, not the request context.
	err = h.Bulk.Start(context.Background(), reciterID, reciterLabel, items, func(item domain.BulkItem) string {
		return h.Resolver.RemoteURL(reciterID, item.ChapterID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrBulkActive) {
			h.writeJSON(w, http.StatusConflict, ErrorResponse{Error: "bulk download already running"})
			return
		}
		h.Logger.Error("Failed to start bulk run", "reciter", reciterID, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to start bulk run"})
		return
	}
	h.writeJSON(w, http.StatusAccepted, h.Bulk.State())
}

func (h *Handler) BulkState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Bulk.State())
}

func (h *Handler) PauseBulk(w http.ResponseWriter, r *http.Request) {
	h.Bulk.Pause()
	h.writeJSON(w, http.StatusOK, h.Bulk.State())
}

func (h *Handler) ResumeBulk(w http.ResponseWriter, r *http.Request) {
	h.Bulk.Resume()
	h.writeJSON(w, http.StatusOK, h.Bulk.State())
}

func (h *Handler) CancelBulk(w http.ResponseWriter, r *http.Request) {
	h.Bulk.Cancel()
	h.writeJSON(w, http.StatusOK, h.Bulk.State())
}

// ChapterTimeline synthesizes heuristic verse windows for a chapter from
// the catalog's verse text.
func (h *Handler) ChapterTimeline(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := h.chapterParam(w, r)
	if !ok {
		return
	}

	verses, err := h.Catalog.Verses(r.Context(), chapterID)
	if err != nil {
		h.Logger.Error("Failed to fetch verses", "chapter", chapterID, "error", err)
		h.writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "content API unavailable"})
		return
	}

	windows := timeline.Synthesize(verses, timeline.DefaultCalibration())
	h.writeJSON(w, http.StatusOK, TimelineResponse{ChapterID: chapterID, Windows: windows})
}

func (h *Handler) chapterParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	chapterID, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil || chapterID < 1 || chapterID > constants.ChapterCount {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid chapter"})
		return 0, false
	}
	return chapterID, true
}
