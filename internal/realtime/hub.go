// Package realtime is the change-notification hub. Mutation paths publish
// "something changed on this table" events; consumers re-query, they never
// trust a payload. Slow subscribers drop events rather than block a save,
// which is safe under re-query semantics.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"
)

// Table names events can be published on.
const (
	TableDebunks = "debunks"
	TablePending = "pending_scrapes"
)

// Event announces a change to a table. ID is advisory; it may be empty.
type Event struct {
	Table string `json:"table"`
	Op    string `json:"op"` // insert, update, delete
	ID    string `json:"id,omitempty"`
}

// Hub fans events out to subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[int]subscriber
	next int
	log  zerolog.Logger
}

type subscriber struct {
	table string // empty = all tables
	ch    chan Event
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[int]subscriber),
		log:  log.With().Str("component", "realtime").Logger(),
	}
}

// Subscribe registers interest in a table ("" for all). The returned cancel
// func must be called when the consumer goes away.
func (h *Hub) Subscribe(table string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = subscriber{table: table, ch: ch}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans an event out without blocking. A subscriber with a full
// buffer misses the event; the next one it does receive triggers the same
// full refetch.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if sub.table != "" && sub.table != ev.Table {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.log.Debug().Str("table", ev.Table).Msg("Subscriber buffer full, event dropped")
		}
	}
}
