// Package store is the persistence gateway: typed reads and writes over the marketplace
// tables. Every committed insert or update is published on the change feed.
package store

import (
	"context"
	"errors"
	"strings"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/realtime"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// Store wraps a gorm handle. Inside Transaction it is bound to the transaction and
// buffers change events until commit.
type Store struct {
	db      *gorm.DB
	feed    *realtime.Feed
	pending *[]realtime.ChangeEvent
}

// New creates a store publishing to feed (which may be nil).
func New(db *gorm.DB, feed *realtime.Feed) *Store {
	return &Store{db: db, feed: feed}
}

// Transaction runs fn inside a database transaction. fn's error is returned unchanged
// and rolls everything back; change events are published only after commit.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.pending != nil {
		return fn(s)
	}
	var events []realtime.ChangeEvent
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, feed: s.feed, pending: &events})
	})
	if err != nil {
		return err
	}
	for _, evt := range events {
		s.publish(evt)
	}
	return nil
}

func (s *Store) emit(evt realtime.ChangeEvent) {
	if s.pending != nil {
		*s.pending = append(*s.pending, evt)
		return
	}
	s.publish(evt)
}

func (s *Store) publish(evt realtime.ChangeEvent) {
	if s.feed != nil {
		s.feed.Publish(evt)
	}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver errors onto the gateway's sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
