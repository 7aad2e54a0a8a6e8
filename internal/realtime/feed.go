package realtime

import (
	"sync"
)

// ChangeKind is the kind of row change carried by a ChangeEvent.
type ChangeKind string

const (
	KindInsert ChangeKind = "insert"
	KindUpdate ChangeKind = "update"
)

// ChangeEvent describes a committed row change.
// UserIDs lists the users the row concerns, used to route pushes.
type ChangeEvent struct {
	Table   string     `json:"table"`
	Kind    ChangeKind `json:"kind"`
	ID      string     `json:"id"`
	Row     any        `json:"-"`
	UserIDs []string   `json:"-"`
}

// Concerns reports whether the event is addressed to userID.
func (e ChangeEvent) Concerns(userID string) bool {
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Filter selects the events a subscription receives. A nil Filter accepts everything.
type Filter func(ChangeEvent) bool

// ForUser keeps events concerning userID.
func ForUser(userID string) Filter {
	return func(e ChangeEvent) bool { return e.Concerns(userID) }
}

// Subscription is a stream of change events. Events are dropped when the
// subscriber falls behind; consumers refetch state instead of applying deltas.
type Subscription struct {
	C <-chan ChangeEvent

	ch     chan ChangeEvent
	feed   *Feed
	table  string
	filter Filter
	kinds  map[ChangeKind]struct{}
	once   sync.Once
}

func (s *Subscription) matches(e ChangeEvent) bool {
	if s.table != "" && s.table != e.Table {
		return false
	}
	if len(s.kinds) > 0 {
		if _, ok := s.kinds[e.Kind]; !ok {
			return false
		}
	}
	return s.filter == nil || s.filter(e)
}

// Unsubscribe releases the stream and closes C. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		close(s.ch)
		s.feed.mu.Unlock()
	})
}

// Feed fans committed row changes out to subscribers.
type Feed struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewFeed creates a feed whose subscriptions buffer up to buffer events.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = 64
	}
	return &Feed{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers interest in table ("" for all tables), narrowed by filter and kinds.
func (f *Feed) Subscribe(table string, filter Filter, kinds ...ChangeKind) *Subscription {
	ch := make(chan ChangeEvent, f.buffer)
	s := &Subscription{
		C:      ch,
		ch:     ch,
		feed:   f,
		table:  table,
		filter: filter,
	}
	if len(kinds) > 0 {
		s.kinds = make(map[ChangeKind]struct{}, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = struct{}{}
		}
	}

	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s
}

// Publish delivers evt to every matching subscription without blocking.
func (f *Feed) Publish(evt ChangeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for s := range f.subs {
		if !s.matches(evt) {
			continue
		}
		select {
		case s.ch <- evt:
		default:
		}
	}
}

// Len returns the number of live subscriptions.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
