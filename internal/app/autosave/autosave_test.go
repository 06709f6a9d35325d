package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

func newStore(t *testing.T, ttl time.Duration) (*DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDraftStore(client, ttl), mr
}

func components() models.Components {
	return models.Components{
		&models.TextComponent{BaseComponent: models.BaseComponent{ID: "t1"}, Content: "Explain", Points: models.Float(2)},
	}
}

func TestDraftStoreRoundTrip(t *testing.T) {
	store, mr := newStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.Save(ctx, "u1", "e1", "Brouillon", components())
	require.NoError(t, err)
	assert.True(t, mr.Exists("draft:u1:e1"))
	assert.Equal(t, time.Hour, mr.TTL("draft:u1:e1"))

	draft, err := store.Load(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "Brouillon", draft.Title)
	require.Len(t, draft.Components, 1)
	assert.Equal(t, models.ComponentText, draft.Components[0].Kind())

	require.NoError(t, store.Delete(ctx, "u1", "e1"))
	_, err = store.Load(ctx, "u1", "e1")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

func TestDraftStoreLastWriteWins(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.Save(ctx, "u1", "e1", "first", nil)
	require.NoError(t, err)
	_, err = store.Save(ctx, "u1", "e1", "second", components())
	require.NoError(t, err)

	draft, err := store.Load(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "second", draft.Title)
}

func TestDraftExpires(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()
	_, err := store.Save(ctx, "u1", "e1", "x", nil)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "u1", "e1")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

type recordingSaver struct {
	mu    sync.Mutex
	saves []string
	err   error

	// failures makes the next n saves fail without being recorded
	failures int
}

func (r *recordingSaver) SaveSnapshot(_ context.Context, userID, examID, title string, _ models.Components) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	r.saves = append(r.saves, userID+"/"+examID+"/"+title)
	return r.err
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func TestWorkerDebouncesTouches(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{}
	w := NewWorker(store, saver, 50*time.Millisecond, time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Save(ctx, "u1", "e1", "v", components())
		require.NoError(t, err)
		w.Touch("u1", "e1")
	}

	assert.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, w.Pending())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestWorkerFlushesOnShutdown(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{}
	w := NewWorker(store, saver, time.Hour, time.Hour, zerolog.Nop())

	_, err := store.Save(context.Background(), "u1", "e1", "final", components())
	require.NoError(t, err)
	w.Touch("u1", "e1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, []string{"u1/e1/final"}, saver.saves)
}

func TestWorkerTickFlushesDirtyDrafts(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{}
	w := NewWorker(store, saver, 0, 20*time.Millisecond, zerolog.Nop())

	_, err := store.Save(context.Background(), "u1", "e2", "tick", nil)
	require.NoError(t, err)
	w.Touch("u1", "e2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWorkerDropsDraftOfMissingExam(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{err: apperrors.ErrExamNotFound}
	w := NewWorker(store, saver, 0, time.Hour, zerolog.Nop())

	_, err := store.Save(context.Background(), "u1", "gone", "x", nil)
	require.NoError(t, err)
	w.Touch("u1", "gone")
	w.FlushAll()

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, 0, w.Pending())
}

func TestWorkerSkipsExpiredDraft(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{}
	w := NewWorker(store, saver, 0, time.Hour, zerolog.Nop())

	w.Touch("u1", "never-saved")
	w.FlushAll()
	assert.Equal(t, 0, saver.count())
}

func TestWorkerRetriesFailedWriteOnNextTick(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{failures: 1}
	w := NewWorker(store, saver, 0, time.Hour, zerolog.Nop())

	_, err := store.Save(context.Background(), "u1", "e1", "retry", components())
	require.NoError(t, err)
	w.Touch("u1", "e1")

	w.FlushAll()
	assert.Equal(t, 0, saver.count())
	assert.Equal(t, 1, w.Pending())

	w.FlushAll()
	assert.Equal(t, []string{"u1/e1/retry"}, saver.saves)
	assert.Equal(t, 0, w.Pending())
}

func TestWorkerTouchAfterStopOnlyMarksDirty(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	saver := &recordingSaver{}
	w := NewWorker(store, saver, time.Hour, time.Hour, zerolog.Nop())

	w.stopTimers()
	w.Touch("u1", "late")

	w.mu.Lock()
	_, scheduled := w.timers[draftKey{userID: "u1", examID: "late"}]
	w.mu.Unlock()
	assert.False(t, scheduled)
	assert.Equal(t, 1, w.Pending())
}
