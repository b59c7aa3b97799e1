package mock

import (
	"context"
	"sync"

	"github.com/elonge/venetia-engine/core"
)

// MockChatStreamer is a test double for ai.ChatStreamer. By default it
// streams the configured Deltas one by one through the callback.
type MockChatStreamer struct {
	// Deltas are streamed in order when StreamChatFunc is nil.
	Deltas []string

	// Err, if set, is returned after FailAfter deltas have been delivered.
	Err       error
	FailAfter int

	// StreamChatFunc overrides the default behavior entirely.
	StreamChatFunc func(ctx context.Context, turns []core.Turn, onDelta func(delta string) error) error

	mu        sync.Mutex
	callCount int
	lastTurns []core.Turn
}

// NewMockChatStreamer creates a mock streamer that emits the given deltas.
func NewMockChatStreamer(deltas ...string) *MockChatStreamer {
	return &MockChatStreamer{Deltas: deltas}
}

// StreamChat replays the scripted deltas, honoring context cancellation and
// callback errors the way a real provider would.
func (m *MockChatStreamer) StreamChat(ctx context.Context, turns []core.Turn, onDelta func(delta string) error) error {
	m.mu.Lock()
	m.callCount++
	m.lastTurns = append([]core.Turn(nil), turns...)
	fn := m.StreamChatFunc
	deltas := m.Deltas
	failAfter := m.FailAfter
	err := m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, turns, onDelta)
	}

	for i, delta := range deltas {
		if err != nil && i >= failAfter {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if cbErr := onDelta(delta); cbErr != nil {
			return cbErr
		}
	}
	if err != nil && failAfter >= len(deltas) {
		return err
	}
	return nil
}

// CallCount returns the number of times StreamChat was called.
func (m *MockChatStreamer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastTurns returns the turns passed to the most recent StreamChat call.
func (m *MockChatStreamer) LastTurns() []core.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTurns
}

// Reset clears recorded state and custom behavior.
func (m *MockChatStreamer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastTurns = nil
	m.StreamChatFunc = nil
	m.Err = nil
	m.FailAfter = 0
}
