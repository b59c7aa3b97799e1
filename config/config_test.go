package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost:6334", cfg.Storage.Qdrant.Addr)
	assert.Equal(t, "asquith_letters", cfg.Storage.Qdrant.Collection)
	assert.Equal(t, 1000, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 200, cfg.Ingestion.ChunkOverlap)
}

func TestLoad_PartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
storage:
  badger_path: /var/lib/venetia
  qdrant:
    collection: letters_test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/venetia", cfg.Storage.BadgerPath)
	assert.Equal(t, "letters_test", cfg.Storage.Qdrant.Collection)

	// Everything the file left out keeps its default.
	assert.Equal(t, "localhost:6334", cfg.Storage.Qdrant.Addr)
	assert.Equal(t, 3072, cfg.Storage.Qdrant.Dims)
	assert.NotEmpty(t, cfg.AI.EmbeddingModel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAIConfig_TokenFromEnv(t *testing.T) {
	cfg := Default()
	cfg.AI.TokenEnv = "VENETIA_TEST_TOKEN"
	t.Setenv("VENETIA_TEST_TOKEN", "sk-test")

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "sk-test", aiCfg.Token)
	assert.Equal(t, cfg.AI.EmbeddingModel, aiCfg.EmbeddingModel)
	assert.Equal(t, cfg.AI.ChatModel, aiCfg.ChatModel)
}

func TestAIConfig_MissingEnvLeavesTokenEmpty(t *testing.T) {
	cfg := Default()
	cfg.AI.TokenEnv = "VENETIA_UNSET_TOKEN"

	aiCfg := cfg.AIConfig()
	assert.Empty(t, aiCfg.Token)
}
