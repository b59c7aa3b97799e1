// Copyright 2025 Venetia Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
)

// eventBuffer bounds the event channel so a slow consumer applies
// back-pressure to the provider stream instead of growing memory.
const eventBuffer = 16

// Event is one element of a chat response stream. Exactly one terminal event
// is delivered per stream: either Sources+Done on success or Err+Done on
// failure. Deltas delivered before a failure stand; partial text is never
// retracted.
type Event struct {
	Delta   string
	Sources []core.SourceRef
	Done    bool
	Err     error
}

// Streamer produces streamed, evidence-grounded chat responses.
type Streamer struct {
	generator ai.ChatStreamer
	logger    *slog.Logger
}

// Option configures a Streamer.
type Option func(*Streamer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Streamer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStreamer creates a new streamer.
func NewStreamer(generator ai.ChatStreamer, opts ...Option) (*Streamer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Streamer{
		generator: generator,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Stream opens a response stream for the message over the given evidence.
// Input validation failures are returned synchronously; everything after
// that arrives on the channel, which is closed after the terminal event.
// Cancelling ctx aborts the provider call and ends the stream.
func (s *Streamer) Stream(ctx context.Context, bundle *core.EvidenceBundle, history []core.Turn, message string) (<-chan Event, error) {
	if err := core.ValidateMessage(message); err != nil {
		return nil, err
	}

	events := make(chan Event, eventBuffer)

	if bundle.Empty() {
		// Nothing to ground an answer in; respond with the fixed message and
		// never touch the generator.
		go func() {
			defer close(events)
			if s.send(ctx, events, Event{Delta: noEvidenceMessage}) != nil {
				return
			}
			s.send(ctx, events, Event{Sources: []core.SourceRef{}, Done: true})
		}()
		return events, nil
	}

	turns := buildTurns(bundle, history, message)

	go func() {
		defer close(events)

		err := s.generator.StreamChat(ctx, turns, func(delta string) error {
			return s.send(ctx, events, Event{Delta: delta})
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Consumer is gone; no one is listening for a terminal event.
				return
			}
			s.logger.Error("streaming generation failed", "err", err)
			s.send(ctx, events, Event{Err: err, Done: true})
			return
		}

		s.send(ctx, events, Event{Sources: bundle.Sources(), Done: true})
	}()

	return events, nil
}

// send delivers an event unless the consumer's context is already gone.
func (s *Streamer) send(ctx context.Context, events chan<- Event, event Event) error {
	select {
	case events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
