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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elonge/venetia-engine/chat"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/retrieval"
	"github.com/elonge/venetia-engine/signal"
	"github.com/elonge/venetia-engine/storage"
)

// Server exposes the engine over HTTP.
type Server struct {
	retriever *retrieval.Retriever
	streamer  *chat.Streamer
	pipeline  *signal.Pipeline
	chunks    storage.ChunkStore
	logger    *slog.Logger
	router    *gin.Engine
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer wires the HTTP surface over the engine components.
func NewServer(retriever *retrieval.Retriever, streamer *chat.Streamer, pipeline *signal.Pipeline, chunks storage.ChunkStore, opts ...Option) (*Server, error) {
	if retriever == nil {
		return nil, retrieval.ErrEmbedderRequired
	}
	if streamer == nil {
		return nil, chat.ErrGeneratorRequired
	}
	if pipeline == nil {
		return nil, signal.ErrExpanderRequired
	}
	if chunks == nil {
		return nil, retrieval.ErrChunkStoreRequired
	}

	s := &Server{
		retriever: retriever,
		streamer:  streamer,
		pipeline:  pipeline,
		chunks:    chunks,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/series", s.handleSeries)
	api.GET("/sources", s.handleSources)

	s.router = router
	return s, nil
}

// Router returns the configured gin engine, for serving or testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.router.Run(addr)
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrExpansionIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmbeddingUnavailable),
		errors.Is(err, core.ErrStoreUnavailable),
		errors.Is(err, core.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
