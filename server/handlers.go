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

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/retrieval"
)

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Message string      `json:"message"`
	History []core.Turn `json:"history"`
}

// sseEvent frames one server-sent event data line.
func sseEvent(payload any) []byte {
	data, _ := json.Marshal(payload)
	return append(append([]byte("data: "), data...), '\n', '\n')
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := core.ValidateMessage(req.Message); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	bundle, err := s.retriever.RetrieveWithHistory(ctx, req.Message, req.History, retrieval.ChatTopK)
	if err != nil {
		s.fail(c, err)
		return
	}

	events, err := s.streamer.Stream(ctx, bundle, req.History, req.Message)
	if err != nil {
		s.fail(c, err)
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	for event := range events {
		switch {
		case event.Err != nil:
			c.Writer.Write(sseEvent(gin.H{"error": event.Err.Error(), "done": true}))
		case event.Done:
			c.Writer.Write(sseEvent(gin.H{"sources": event.Sources, "done": true}))
		default:
			c.Writer.Write(sseEvent(gin.H{"content": event.Delta}))
		}
		c.Writer.Flush()
	}
}

func (s *Server) handleSeries(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		term = c.Query("q")
	}

	granularity := core.ParseGranularity(c.Query("granularity"))
	window := parsePositiveInt(c.Query("window"), 0)
	from := parseISODate(c.Query("from"))
	to := parseISODate(c.Query("to"))

	series, err := s.pipeline.DeriveSeriesRange(c.Request.Context(), term, granularity, window, from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) handleSources(c *gin.Context) {
	sources, err := s.chunks.ListSources(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// parsePositiveInt returns fallback when the value is absent or not a
// positive integer.
func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseISODate returns the zero time when the value is absent or malformed.
func parseISODate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
