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

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/elonge/venetia-engine/ai"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// QdrantConfig contains connection details for the Qdrant chunk store.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
	// Dims is the embedding dimensionality used when the collection has to
	// be created.
	Dims int `yaml:"dims"`
}

// StorageConfig configures the persistence backends.
type StorageConfig struct {
	// BadgerPath is the directory for the bucket-embedding and expansion
	// cache database. Empty selects an in-memory database.
	BadgerPath string       `yaml:"badger_path"`
	Qdrant     QdrantConfig `yaml:"qdrant"`
}

// AIConfig configures the OpenAI-compatible provider.
type AIConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	ChatHost       string `yaml:"chat_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `yaml:"token_env"`
}

// IngestionConfig configures corpus ingestion.
type IngestionConfig struct {
	ChunkSize    int `yaml:"chunk_size"`    // estimated tokens per chunk
	ChunkOverlap int `yaml:"chunk_overlap"` // estimated tokens of overlap
	PoolSize     int `yaml:"pool_size"`     // embedding workers, 0 for auto
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	AI        AIConfig        `yaml:"ai"`
	Ingestion IngestionConfig `yaml:"ingestion"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			BadgerPath: "data/venetia",
			Qdrant: QdrantConfig{
				Addr:       "localhost:6334",
				Collection: "asquith_letters",
				Dims:       3072,
			},
		},
		AI: AIConfig{
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			ChatHost:       aiDefaults.ChatHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			ChatModel:      aiDefaults.ChatModel,
			TokenEnv:       "OPENAI_API_KEY",
		},
		Ingestion: IngestionConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
	}
}

// Load reads a config from path, loading a .env file first when one exists.
// A missing config file yields the defaults; a present file is merged over
// them, so partial configs are fine.
func Load(path string) (*Config, error) {
	// Populate the environment before the token lookup can need it. A
	// missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// AIConfig converts the file representation into the ai package's Config,
// resolving the token from the configured environment variable.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithChatModel(c.AI.ChatModel),
	)
	if c.AI.TokenEnv != "" {
		if token := os.Getenv(c.AI.TokenEnv); token != "" {
			cfg.Token = token
		}
	}
	return cfg
}

// applyDefaults fills in zero values an explicit config file left out.
func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Storage.Qdrant.Addr == "" {
		cfg.Storage.Qdrant.Addr = defaults.Storage.Qdrant.Addr
	}
	if cfg.Storage.Qdrant.Collection == "" {
		cfg.Storage.Qdrant.Collection = defaults.Storage.Qdrant.Collection
	}
	if cfg.Storage.Qdrant.Dims == 0 {
		cfg.Storage.Qdrant.Dims = defaults.Storage.Qdrant.Dims
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = defaults.AI.EmbeddingHost
	}
	if cfg.AI.ChatHost == "" {
		cfg.AI.ChatHost = defaults.AI.ChatHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = defaults.AI.EmbeddingModel
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = defaults.AI.ChatModel
	}
	if cfg.AI.TokenEnv == "" {
		cfg.AI.TokenEnv = defaults.AI.TokenEnv
	}
	if cfg.Ingestion.ChunkSize == 0 {
		cfg.Ingestion.ChunkSize = defaults.Ingestion.ChunkSize
	}
	if cfg.Ingestion.ChunkOverlap == 0 {
		cfg.Ingestion.ChunkOverlap = defaults.Ingestion.ChunkOverlap
	}
}
