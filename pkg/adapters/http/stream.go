package http

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// StreamManager handles active SSE connections.
// Subscribers under the empty run ID receive the events of every run.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- domain.RunEvent]struct{} // RunID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- domain.RunEvent]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(runID string) (chan domain.RunEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan domain.RunEvent, 10)
	if _, ok := sm.subscribers[runID]; !ok {
		sm.subscribers[runID] = make(map[chan<- domain.RunEvent]struct{})
	}
	sm.subscribers[runID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[runID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, runID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(ev domain.RunEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "run_id", ev.RunID, "type", ev.Type)

	sm.send(ev.RunID, ev)
	if ev.RunID != "" {
		sm.send("", ev)
	}
}

func (sm *StreamManager) send(key string, ev domain.RunEvent) {
	for ch := range sm.subscribers[key] {
		select {
		case ch <- ev:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "run_id", ev.RunID)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every run event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(_ context.Context, ev *domain.RunEvent) {
		sm.Broadcast(*ev)
	}
	return domain.LifecycleHooks{
		OnRunStart: publish,
		OnRunHalt:  publish,
	}
}
