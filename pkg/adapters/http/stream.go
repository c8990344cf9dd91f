package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager fans snapshot diffs out to SSE subscribers. Each machine's
// diff is taken against the last snapshot published for it.
type StreamManager struct {
	mu          sync.Mutex
	subscribers map[string]map[chan string]struct{}
	last        map[string]domain.Snapshot
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		last:        make(map[string]domain.Snapshot),
		logger:      logger,
	}
}

// Subscribe registers a channel for id. The returned func unregisters and closes it.
func (sm *StreamManager) Subscribe(id string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[id]; ok {
				if _, ok := subs[ch]; ok {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(sm.subscribers, id)
				}
			}
		})
	}
}

// Publish records snap as the latest for id and broadcasts what changed.
func (sm *StreamManager) Publish(id string, snap domain.Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var prev *domain.Snapshot
	if old, ok := sm.last[id]; ok {
		prev = &old
	}
	sm.last[id] = snap

	diff := domain.Diff(prev, &snap)
	if diff == nil {
		return
	}
	diff.Machine = id
	sm.broadcast(id, diff)
}

// Forget drops the stored snapshot and closes every subscriber of id.
func (sm *StreamManager) Forget(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.last, id)
	for ch := range sm.subscribers[id] {
		close(ch)
	}
	delete(sm.subscribers, id)
}

// broadcast must be called with sm.mu held.
func (sm *StreamManager) broadcast(id string, diff *domain.SnapshotDiff) {
	subs := sm.subscribers[id]
	if len(subs) == 0 {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("diff encode failed", "session_id", id, "err", err)
		return
	}
	msg := string(payload)

	sm.logger.Debug("broadcasting", "session_id", id, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", id)
		}
	}
}

// SubscribeEvents handles GET /machines/{id}/events (SSE). The first data
// event carries the full snapshot; later ones carry only what changed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	var snap domain.Snapshot
	if err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		snap = e.Snapshot()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	initial := domain.Diff(nil, &snap)
	initial.Machine = id
	payload, err := json.Marshal(initial)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: subscribed", "session_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
