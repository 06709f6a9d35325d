package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

// flushTimeout bounds one write back to the database
const flushTimeout = 10 * time.Second

// SnapshotSaver writes a draft over the stored exam
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, userID, examID, title string, components models.Components) error
}

// DraftLoader reads back the latest draft
type DraftLoader interface {
	Load(ctx context.Context, userID, examID string) (*Draft, error)
}

type draftKey struct {
	userID string
	examID string
}

// Worker persists drafts to the exam rows. A draft is written once its
// debounce delay elapses without a newer Touch, and on every periodic tick
// while it is still dirty. Both paths write the latest snapshot, so running
// both for the same draft is harmless.
type Worker struct {
	drafts   DraftLoader
	saver    SnapshotSaver
	debounce time.Duration
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	dirty  map[draftKey]struct{}
	timers map[draftKey]*time.Timer
	wg     sync.WaitGroup

	// stopping is set once Run starts its final flush; later Touches only
	// mark the draft dirty
	stopping bool
}

// NewWorker creates a Worker. A zero debounce writes only on ticks.
func NewWorker(drafts DraftLoader, saver SnapshotSaver, debounce, interval time.Duration, log zerolog.Logger) *Worker {
	return &Worker{
		drafts:   drafts,
		saver:    saver,
		debounce: debounce,
		interval: interval,
		log:      log,
		dirty:    make(map[draftKey]struct{}),
		timers:   make(map[draftKey]*time.Timer),
	}
}

// Touch marks a draft dirty and restarts its debounce timer
func (w *Worker) Touch(userID, examID string) {
	key := draftKey{userID: userID, examID: examID}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty[key] = struct{}{}
	if w.debounce <= 0 || w.stopping {
		return
	}
	if t, ok := w.timers[key]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.timers[key] == t {
			delete(w.timers, key)
		}
		w.mu.Unlock()
		w.flush(key)
	})
	w.timers[key] = t
}

// Pending reports how many drafts wait for a write
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirty)
}

// Run flushes dirty drafts every interval until ctx is done, then stops the
// timers and flushes what is left
func (w *Worker) Run(ctx context.Context) {
	interval := w.interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.FlushAll()
		case <-ctx.Done():
			w.stopTimers()
			w.wg.Wait()
			w.FlushAll()
			w.log.Info().Msg("Autosave worker stopped")
			return
		}
	}
}

// FlushAll writes every dirty draft
func (w *Worker) FlushAll() {
	w.mu.Lock()
	keys := make([]draftKey, 0, len(w.dirty))
	for k := range w.dirty {
		keys = append(keys, k)
	}
	w.mu.Unlock()

	for _, k := range keys {
		w.flush(k)
	}
}

func (w *Worker) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopping = true
	for k, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, k)
	}
}

func (w *Worker) flush(key draftKey) {
	w.mu.Lock()
	if _, ok := w.dirty[key]; !ok {
		w.mu.Unlock()
		return
	}
	delete(w.dirty, key)
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	log := w.log.With().Str("userId", key.userID).Str("examId", key.examID).Logger()

	draft, err := w.drafts.Load(ctx, key.userID, key.examID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDraftNotFound) {
			log.Error().Err(err).Msg("Failed to load draft")
			w.retry(key)
		}
		return
	}
	if err := w.saver.SaveSnapshot(ctx, key.userID, key.examID, draft.Title, draft.Components); err != nil {
		if errors.Is(err, apperrors.ErrExamNotFound) {
			log.Warn().Msg("Dropping draft of a missing exam")
			return
		}
		log.Error().Err(err).Msg("Failed to persist draft")
		w.retry(key)
		return
	}
	log.Debug().Int("components", len(draft.Components)).Msg("Draft persisted")
}

// retry marks key dirty again so the next tick writes it
func (w *Worker) retry(key draftKey) {
	w.mu.Lock()
	w.dirty[key] = struct{}{}
	w.mu.Unlock()
}
