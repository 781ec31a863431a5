// Package download fetches one chapter recitation over the network with
// streamed progress and commits it to the cache all-or-nothing.
package download

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/bogem/id3v2/v2"

	"github.com/skanderbk/tartil/internal/constants"
	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/httpclient"
	"github.com/skanderbk/tartil/internal/logger"
	"github.com/skanderbk/tartil/internal/store"
)

// Request describes one single-item download.
type Request struct {
	ReciterID    string
	ReciterLabel string
	ChapterID    int
	ChapterLabel string
	URL          string

	// OnProgress receives the in-flight DownloadState after every chunk.
	// Optional; called from the downloading goroutine.
	OnProgress func(domain.DownloadState)
}

type inflight struct {
	done chan struct{}
	ok   bool
}

type Pipeline struct {
	store  *store.DB
	client *httpclient.Client
	log    *logger.Logger

	mu      sync.Mutex
	pending map[string]*inflight
}

func NewPipeline(db *store.DB, client *httpclient.Client, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	return &Pipeline{
		store:   db,
		client:  client,
		log:     log.WithComponent("download"),
		pending: make(map[string]*inflight),
	}
}

// Download fetches req.URL and stores the result under the request's
// cache key. It reports success without fetching when the key is already
// cached, and never commits a partial item: any network or storage
// failure discards the received bytes and returns false.
//
// Two concurrent calls for the same uncached key are deduplicated: the
// second waits for the first fetch and shares its result.
func (p *Pipeline) Download(ctx context.Context, req Request) bool {
	key := domain.CacheKey(req.ReciterID, req.ChapterID)

	if cached, err := p.store.Has(key); err == nil && cached {
		return true
	}

	p.mu.Lock()
	if call, ok := p.pending[key]; ok {
		p.mu.Unlock()
		select {
		case <-call.done:
			return call.ok
		case <-ctx.Done():
			return false
		}
	}
	call := &inflight{done: make(chan struct{})}
	p.pending[key] = call
	p.mu.Unlock()

	call.ok = p.fetch(ctx, key, req)

	p.mu.Lock()
	delete(p.pending, key)
	p.mu.Unlock()
	close(call.done)

	return call.ok
}

func (p *Pipeline) fetch(ctx context.Context, key string, req Request) bool {
	log := p.log.WithReciter(req.ReciterID, req.ReciterLabel).WithChapter(req.ChapterID, req.ChapterLabel)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		log.Error("Invalid download URL", "url", req.URL, "error", err)
		return false
	}

	resp, err := p.client.Do(ctx, httpReq)
	if err != nil {
		log.Error("Download failed", "error", &domain.NetworkError{URL: req.URL, Err: err})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("Download failed", "error", &domain.NetworkError{URL: req.URL, Status: resp.StatusCode})
		return false
	}

	total := resp.ContentLength
	var buf bytes.Buffer
	chunk := make([]byte, constants.DownloadChunkSize)
	var received int64

	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			received += int64(n)
			p.reportProgress(req, key, received, total)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Error("Download stream aborted", "received_bytes", received, "error", readErr)
			return false
		}
	}

	audio := buf.Bytes()
	rec := &domain.Recitation{
		Key:          key,
		ReciterID:    req.ReciterID,
		ReciterLabel: req.ReciterLabel,
		ChapterID:    req.ChapterID,
		ChapterLabel: req.ChapterLabel,
		Title:        sniffTitle(audio),
		Audio:        audio,
	}

	if err := p.store.Put(rec); err != nil {
		// Storage failure is fatal to this operation only; the caller
		// falls back to remote playback without caching.
		log.Error("Failed to store recitation", "error", err)
		return false
	}

	log.Info("Recitation cached", "bytes", len(audio))
	return true
}

func (p *Pipeline) reportProgress(req Request, key string, received, total int64) {
	if req.OnProgress == nil {
		return
	}
	state := domain.DownloadState{
		Key:           key,
		ReceivedBytes: received,
		TotalBytes:    total,
		Percent:       -1,
	}
	if total > 0 {
		state.Percent = int(received * 100 / total)
	}
	req.OnProgress(state)
}

// sniffTitle reads the title frame from a leading ID3v2 tag, if one is
// present. Untagged audio is fine; the cached item just has no title.
func sniffTitle(audio []byte) string {
	tag, err := id3v2.ParseReader(bytes.NewReader(audio), id3v2.Options{Parse: true})
	if err != nil || tag == nil {
		return ""
	}
	return tag.Title()
}
