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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatClient implements ai.ConceptExpander and ai.ChatStreamer using
// OpenAI-compatible chat APIs.
type ChatClient struct {
	client llms.Model
	logger *slog.Logger
}

var (
	_ ai.ConceptExpander = (*ChatClient)(nil)
	_ ai.ChatStreamer    = (*ChatClient)(nil)
)

// newChatClient is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatClient(config *ai.Config) (*ChatClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &ChatClient{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatClient creates a chat client using the provided configuration.
func NewChatClient(config *ai.Config) (*ChatClient, error) {
	return newChatClient(config)
}

// expansionResult is an internal type used for JSON unmarshaling.
// It matches the structure requested from the model.
type expansionResult struct {
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Synonyms   []string `json:"synonyms"`
	Indicators []string `json:"indicators"`
	Exclusions []string `json:"exclusions"`
}

// ExpandConcept elaborates a term into a structured expansion using an LLM
// constrained to JSON output.
func (c *ChatClient) ExpandConcept(ctx context.Context, term string) (*core.ConceptExpansion, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart("You output strict JSON only.")},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildExpansionPrompt(term))},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result expansionResult
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate expansion", "term", term, "attempt", attempt+1, "err", err)
			return nil, fmt.Errorf("%w: %w", core.ErrGenerationFailed, err)
		}

		if len(response.Choices) < 1 {
			return nil, fmt.Errorf("%w: no choices returned for term %q", core.ErrGenerationFailed, term)
		}

		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = repairJSON(strings.TrimSpace(responseText))

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing expansion response",
				"term", term,
				"attempt", attempt+1,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		c.logger.Error("failed to parse expansion response after retries", "term", term, "err", lastErr)
		return nil, fmt.Errorf("%w: %w", core.ErrGenerationFailed, lastErr)
	}

	expansion := &core.ConceptExpansion{
		Term:       result.Term,
		Definition: strings.TrimSpace(result.Definition),
		Synonyms:   compactStrings(result.Synonyms),
		Indicators: compactStrings(result.Indicators),
		Exclusions: compactStrings(result.Exclusions),
	}
	if expansion.Term == "" {
		expansion.Term = term
	}

	if err := core.ValidateExpansion(expansion); err != nil {
		return nil, err
	}

	c.logger.Debug("expanded concept",
		"term", term,
		"synonyms", len(expansion.Synonyms),
		"indicators", len(expansion.Indicators))
	return expansion, nil
}

// StreamChat opens a streaming generation call and forwards each fragment to
// onDelta as it arrives.
func (c *ChatClient) StreamChat(ctx context.Context, turns []core.Turn, onDelta func(delta string) error) error {
	content := make([]llms.MessageContent, 0, len(turns))
	for _, turn := range turns {
		content = append(content, llms.MessageContent{
			Role:  messageType(turn.Role),
			Parts: []llms.ContentPart{llms.TextPart(turn.Content)},
		})
	}

	var deltaErr error
	_, err := c.client.GenerateContent(ctx, content,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			if err := onDelta(string(chunk)); err != nil {
				deltaErr = err
				return err
			}
			return nil
		}))
	if deltaErr != nil {
		// The consumer aborted; don't mask its error as a provider failure.
		return deltaErr
	}
	if err != nil {
		c.logger.Error("streaming generation failed", "err", err)
		return fmt.Errorf("%w: %w", core.ErrGenerationFailed, err)
	}
	return nil
}

// messageType maps a conversation role to the langchaingo message type.
func messageType(role core.Role) llms.ChatMessageType {
	switch role {
	case core.RoleAssistant:
		return llms.ChatMessageTypeAI
	case core.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}

// compactStrings trims entries and drops empties and duplicates, preserving order.
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
