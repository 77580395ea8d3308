package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/pkg/runner"
)

// StreamManager fans messages out to SSE subscribers, grouped by topic.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe registers a buffered channel for topic. The returned func unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(topic string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan string]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			subs := sm.subscribers[topic]
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, topic)
			}
		})
	}
}

// Subscribers returns the number of subscribers of topic.
func (sm *StreamManager) Subscribers(topic string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[topic])
}

// Broadcast sends msg to every subscriber of topic. Slow subscribers miss messages
// instead of blocking the ticking goroutine.
func (sm *StreamManager) Broadcast(topic, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: client buffer full, dropping message", "topic", topic)
		}
	}
}

// Observe broadcasts a tick status to the subscribers of its tree.
// Register it with runner.WithObserver.
func (sm *StreamManager) Observe(status runner.Status) {
	data, err := json.Marshal(status)
	if err != nil {
		slog.Error("failed to encode status", "error", err)
		return
	}
	sm.Broadcast(status.TreeID, string(data))
}
