// Package bulk drives the download pipeline over every missing chapter
// of one reciter, strictly sequentially, with pause and cancel control.
package bulk

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/skanderbk/tartil/internal/domain"
	"github.com/skanderbk/tartil/internal/download"
	"github.com/skanderbk/tartil/internal/logger"
	"github.com/skanderbk/tartil/internal/store"
)

// Downloader fetches one item. Satisfied by *download.Pipeline.
type Downloader interface {
	Download(ctx context.Context, req download.Request) bool
}

// URLFunc produces the remote URL for one queued item.
type URLFunc func(item domain.BulkItem) string

type Orchestrator struct {
	store      *store.DB
	downloader Downloader
	log        *logger.Logger

	mu     sync.Mutex
	state  domain.BulkState
	resume chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(db *store.DB, dl Downloader, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Default()
	}
	return &Orchestrator{
		store:      db,
		downloader: dl,
		log:        log.WithComponent("bulk"),
	}
}

// Start filters items down to those not yet cached and launches a run
// over them. Already-cached chapters are skipped silently and do not
// count toward the total. An empty filtered list is a no-op: no run
// state is created. Returns domain.ErrBulkActive while a run exists;
// there is at most one bulk run system-wide.
func (o *Orchestrator) Start(ctx context.Context, reciterID, reciterLabel string, items []domain.BulkItem, urlFor URLFunc) error {
	var pending []domain.BulkItem
	for _, item := range items {
		cached, err := o.store.Has(domain.CacheKey(reciterID, item.ChapterID))
		if err != nil {
			// Best-effort cache: an unreadable store means nothing is
			// skippable, so the item stays queued.
			cached = false
		}
		if !cached {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	o.mu.Lock()
	if o.state.Active {
		o.mu.Unlock()
		return domain.ErrBulkActive
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.resume = nil
	o.state = domain.BulkState{
		Active:       true,
		RunID:        uuid.NewString(),
		ReciterID:    reciterID,
		ReciterLabel: reciterLabel,
		Queue:        append([]domain.BulkItem(nil), pending...),
		TotalCount:   len(pending),
		CurrentLabel: pending[0].Label,
	}
	o.mu.Unlock()

	o.wg.Add(1)
	go o.run(runCtx, reciterID, reciterLabel, pending, urlFor)
	return nil
}

func (o *Orchestrator) run(ctx context.Context, reciterID, reciterLabel string, items []domain.BulkItem, urlFor URLFunc) {
	defer o.wg.Done()
	defer o.reset()

	log := o.log.WithReciter(reciterID, reciterLabel)
	log.Info("Bulk download started", "chapters", len(items))

	for i, item := range items {
		if err := o.waitIfPaused(ctx); err != nil {
			log.Info("Bulk download cancelled", "completed", i)
			return
		}
		if ctx.Err() != nil {
			log.Info("Bulk download cancelled", "completed", i)
			return
		}

		ok := o.downloader.Download(ctx, download.Request{
			ReciterID:    reciterID,
			ReciterLabel: reciterLabel,
			ChapterID:    item.ChapterID,
			ChapterLabel: item.Label,
			URL:          urlFor(item),
		})
		if !ok {
			// Best-effort batch: one broken chapter must not block the
			// rest of a multi-hour download.
			log.Warn("Chapter download failed, continuing", "chapter_id", item.ChapterID, "chapter", item.Label)
		}

		o.advance(i, items)
	}

	log.Info("Bulk download finished", "chapters", len(items))
}

// waitIfPaused blocks until the run is resumed or cancelled. No polling:
// Resume closes the gate channel the loop is waiting on.
func (o *Orchestrator) waitIfPaused(ctx context.Context) error {
	o.mu.Lock()
	paused := o.state.Paused
	gate := o.resume
	o.mu.Unlock()

	if !paused {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// advance records item i as resolved and moves the run pointer to the
// next pending item. CompletedCount never decreases within a run.
func (o *Orchestrator) advance(i int, items []domain.BulkItem) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next := o.state
	next.CompletedCount = i + 1
	next.Queue = append([]domain.BulkItem(nil), items[i+1:]...)
	if i+1 < len(items) {
		next.CurrentLabel = items[i+1].Label
	} else {
		next.CurrentLabel = ""
	}
	o.state = next
}

// Pause suspends progress before the next item. The in-flight item, if
// any, still completes.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Active || o.state.Paused {
		return
	}
	o.state.Paused = true
	o.resume = make(chan struct{})
}

func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Active || !o.state.Paused {
		return
	}
	o.state.Paused = false
	close(o.resume)
	o.resume = nil
}

// Cancel aborts the run, including the in-flight fetch: the run context
// is threaded into the pipeline's HTTP request.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Active {
		return
	}
	o.state.Cancelled = true
	o.cancel()
}

// State returns a snapshot copy; callers never observe a run mid-mutation.
func (o *Orchestrator) State() domain.BulkState {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := o.state
	snapshot.Queue = append([]domain.BulkItem(nil), o.state.Queue...)
	return snapshot
}

// Wait blocks until the current run, if any, reaches idle.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.state = domain.BulkState{}
	o.resume = nil
}
