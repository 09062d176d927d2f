package realtime

import (
	"context"
	"sync"

	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// Hub fans push messages out to connected SSE subscribers in this process.
type Hub struct {
	log *logger.Logger

	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:  log.With("component", "RealtimeHub"),
		subs: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe registers a listener on a channel. The returned cancel func must
// be called when the client disconnects.
func (h *Hub) Subscribe(channel string) (<-chan Message, func()) {
	ch := make(chan Message, 16)
	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[chan Message]struct{})
	}
	h.subs[channel][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[channel]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, channel)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Publish delivers to local subscribers. Slow subscribers are skipped rather
// than blocking the caller.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[msg.Channel] {
		select {
		case ch <- msg:
		default:
			h.log.Warn("dropping push message for slow subscriber", "channel", msg.Channel, "event", msg.Event)
		}
	}
	return nil
}
