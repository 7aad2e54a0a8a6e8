package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"task-marketplace-api/internal/cache"
	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/realtime"
	"task-marketplace-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *realtime.Feed) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	feed := realtime.NewFeed(32)
	return New(db, feed), feed
}

func seedTask(t *testing.T, s *Store, id, creator string) models.Task {
	t.Helper()
	task := models.Task{
		ID:        id,
		Title:     "Walk the dog",
		Reward:    10,
		Deadline:  time.Now().Add(24 * time.Hour),
		TaskType:  models.TypeNormal,
		Status:    models.StatusActive,
		CreatorID: creator,
	}
	require.NoError(t, s.CreateTask(context.Background(), &task))
	return task
}

func TestStore_TransactionPublishesAfterCommit(t *testing.T) {
	s, feed := newStore(t)
	sub := feed.Subscribe("tasks", nil, realtime.KindInsert)
	defer sub.Unsubscribe()
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		task := models.Task{ID: "t-1", Title: "x", Status: models.StatusActive, CreatorID: "u-1", TaskType: models.TypeNormal}
		require.NoError(t, tx.CreateTask(ctx, &task))
		require.Len(t, sub.C, 0)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, sub.C, 1)
	evt := <-sub.C
	require.Equal(t, "t-1", evt.ID)
	require.True(t, evt.Concerns("u-1"))
}

func TestStore_TransactionRollbackDropsEvents(t *testing.T) {
	s, feed := newStore(t)
	sub := feed.Subscribe("", nil)
	defer sub.Unsubscribe()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		task := models.Task{ID: "t-1", Title: "x", Status: models.StatusActive, CreatorID: "u-1", TaskType: models.TypeNormal}
		require.NoError(t, tx.CreateTask(ctx, &task))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Len(t, sub.C, 0)

	_, err = s.GetTask(ctx, "t-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpdateTaskHonorsGuard(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	seedTask(t, s, "t-1", "u-1")

	ok, err := s.UpdateTask(ctx, "t-1", map[string]any{"doer_id": nil}, map[string]any{"doer_id": "u-2"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.UpdateTask(ctx, "t-1", map[string]any{"doer_id": nil}, map[string]any{"doer_id": "u-3"})
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.GetTask(ctx, "t-1")
	require.NoError(t, err)
	require.True(t, got.IsDoer("u-2"))
}

func TestStore_DuplicateApplication(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	seedTask(t, s, "t-1", "u-1")

	a1 := models.Application{ID: "a-1", TaskID: "t-1", ApplicantID: "u-2", Status: models.ApplicationPending}
	require.NoError(t, s.CreateApplication(ctx, &a1, "u-1"))

	a2 := models.Application{ID: "a-2", TaskID: "t-1", ApplicantID: "u-2", Status: models.ApplicationPending}
	require.ErrorIs(t, s.CreateApplication(ctx, &a2, "u-1"), ErrDuplicate)
}

func TestStore_RejectSiblings(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	seedTask(t, s, "t-1", "u-1")
	for _, id := range []string{"u-2", "u-3", "u-4"} {
		a := models.Application{ID: "a-" + id, TaskID: "t-1", ApplicantID: id, Status: models.ApplicationPending}
		require.NoError(t, s.CreateApplication(ctx, &a, "u-1"))
	}

	rejected, err := s.RejectSiblings(ctx, "t-1", "a-u-2", "u-1")
	require.NoError(t, err)
	require.Len(t, rejected, 2)

	keep, err := s.GetApplication(ctx, "a-u-2")
	require.NoError(t, err)
	require.Equal(t, models.ApplicationPending, keep.Status)
}

func TestProfileCache_InvalidatedByFeed(t *testing.T) {
	s, feed := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := models.Profile{ID: "u-1", Username: "alice", PasswordHash: "x"}
	require.NoError(t, s.CreateProfile(ctx, &p))

	pc := NewProfileCache(s, cache.NewTTLCache[string, models.Profile](), time.Minute)
	pc.Watch(ctx, feed)

	got, err := pc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 0, got.DoerRating)

	require.NoError(t, s.SetProfileRating(ctx, "u-1", "doer_rating", 4))
	require.Eventually(t, func() bool {
		got, err := pc.Get(ctx, "u-1")
		return err == nil && got.DoerRating == 4
	}, time.Second, 10*time.Millisecond)

	require.Equal(t, "unknown", pc.Username(ctx, "missing", "unknown"))
}

type ttlRecorder struct {
	cache.Cache[string, models.Profile]
	ttls []time.Duration
	// called on every miss, before the caller loads from the store
	onMiss func()
}

func (r *ttlRecorder) Get(key string) (models.Profile, bool) {
	v, ok := r.Cache.Get(key)
	if !ok && r.onMiss != nil {
		r.onMiss()
	}
	return v, ok
}

func (r *ttlRecorder) Set(key string, value models.Profile, ttl time.Duration) {
	r.ttls = append(r.ttls, ttl)
	r.Cache.Set(key, value, ttl)
}

func TestProfileCache_StoresWithTTL(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &models.Profile{ID: "u-1", Username: "alice", PasswordHash: "x"}))

	rec := &ttlRecorder{Cache: cache.NewTTLCache[string, models.Profile]()}
	pc := NewProfileCache(s, rec, 0)
	_, err := pc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, []time.Duration{DefaultProfileTTL}, rec.ttls)
}

func TestProfileCache_InvalidateWins(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &models.Profile{ID: "u-1", Username: "alice", PasswordHash: "x"}))

	rec := &ttlRecorder{Cache: cache.NewTTLCache[string, models.Profile]()}
	pc := NewProfileCache(s, rec, time.Minute)
	// a rating lands between the miss and the store read
	rec.onMiss = func() {
		rec.onMiss = nil
		require.NoError(t, s.SetProfileRating(ctx, "u-1", "doer_rating", 5))
		pc.Invalidate("u-1")
	}
	got, err := pc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 5, got.DoerRating)
	require.Empty(t, rec.ttls, "a load that raced an invalidation must not be cached")

	got, err = pc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 5, got.DoerRating)
	require.Len(t, rec.ttls, 1)
}

func TestStore_LockProfile(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateProfile(ctx, &models.Profile{ID: "u-1", Username: "alice", PasswordHash: "x"}))

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.LockProfile(ctx, "u-1"); err != nil {
			return err
		}
		return tx.CreateTask(ctx, &models.Task{
			ID:        "t-1",
			Title:     "Walk the dog",
			Deadline:  time.Now().Add(time.Hour),
			TaskType:  models.TypeNormal,
			Status:    models.StatusActive,
			CreatorID: "u-1",
		})
	})
	require.NoError(t, err)

	err = s.Transaction(ctx, func(tx *Store) error { return tx.LockProfile(ctx, "missing") })
	require.ErrorIs(t, err, domain.ErrNotFound)
}
