package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonge/venetia-engine/ai/mock"
	"github.com/elonge/venetia-engine/core"
)

// mockChunkStore is a minimal in-test chunk store.
type mockChunkStore struct {
	results   []core.ChunkResult
	err       error
	lastK     int
	lastQuery []float32
}

func (m *mockChunkStore) Query(_ context.Context, vector []float32, k int) ([]core.ChunkResult, error) {
	m.lastQuery = vector
	m.lastK = k
	return m.results, m.err
}

func (m *mockChunkStore) UpsertChunks(_ context.Context, _ ...*core.Chunk) error { return nil }

func (m *mockChunkStore) ListSources(_ context.Context) ([]string, error) { return nil, nil }

func (m *mockChunkStore) Close() error { return nil }

func TestNewRetriever_Validation(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	_, err := NewRetriever(nil, &mockChunkStore{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(embedder, nil)
	assert.ErrorIs(t, err, ErrChunkStoreRequired)
}

func TestRetrieve_OrderPreserved(t *testing.T) {
	store := &mockChunkStore{
		results: []core.ChunkResult{
			{Content: "a", Source: "1914-07-30.txt", Score: 0.91},
			{Content: "b", Source: "1914-08-02.txt", Score: 0.85},
			{Content: "c", Source: "1915-05-12.txt", Score: 0.80},
		},
	}
	retriever, err := NewRetriever(mock.NewMockEmbedder(), store)
	require.NoError(t, err)

	bundle, err := retriever.Retrieve(context.Background(), "the coalition crisis", 8)
	require.NoError(t, err)
	require.False(t, bundle.Empty())
	require.Len(t, bundle.Chunks, 3)
	assert.Equal(t, "the coalition crisis", bundle.Query)
	assert.InDelta(t, 0.91, bundle.Chunks[0].Score, 1e-6)
	assert.InDelta(t, 0.85, bundle.Chunks[1].Score, 1e-6)
	assert.InDelta(t, 0.80, bundle.Chunks[2].Score, 1e-6)
	assert.Equal(t, 8, store.lastK)
}

func TestRetrieve_EmptyResultIsValid(t *testing.T) {
	retriever, err := NewRetriever(mock.NewMockEmbedder(), &mockChunkStore{})
	require.NoError(t, err)

	bundle, err := retriever.Retrieve(context.Background(), "anything", 8)
	require.NoError(t, err)
	assert.True(t, bundle.Empty())
	assert.Empty(t, bundle.Sources())
}

func TestRetrieve_BlankQuery(t *testing.T) {
	retriever, err := NewRetriever(mock.NewMockEmbedder(), &mockChunkStore{})
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "   ", 8)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRetrieve_DefaultK(t *testing.T) {
	store := &mockChunkStore{}
	retriever, err := NewRetriever(mock.NewMockEmbedder(), store)
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "question", 0)
	require.NoError(t, err)
	assert.Equal(t, ChatTopK, store.lastK)
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, core.ErrEmbeddingUnavailable
	}
	retriever, err := NewRetriever(embedder, &mockChunkStore{})
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "question", 8)
	assert.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
}

func TestRetrieve_StoreFailure(t *testing.T) {
	store := &mockChunkStore{err: core.ErrStoreUnavailable}
	retriever, err := NewRetriever(mock.NewMockEmbedder(), store)
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "question", 8)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestRetrieveWithHistory_UsesReformulatedQuery(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	var embedded string
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		embedded = text
		return []float32{0.1}, nil
	}
	retriever, err := NewRetriever(embedder, &mockChunkStore{})
	require.NoError(t, err)

	history := []core.Turn{{Role: core.RoleUser, Content: "Who was Montagu?"}}
	bundle, err := retriever.RetrieveWithHistory(context.Background(), "Did he marry her?", history, 8)
	require.NoError(t, err)

	assert.Contains(t, embedded, "Previous question: Who was Montagu?")
	assert.Contains(t, embedded, "Current question: Did he marry her?")
	assert.Equal(t, embedded, bundle.Query)
}

// recordingMonitor captures the order of monitor hooks.
type recordingMonitor struct {
	stages  []string
	query   string
	results int
}

func (m *recordingMonitor) Start(query string) {
	m.stages = append(m.stages, "start")
	m.query = query
}

func (m *recordingMonitor) AfterEmbedding(_ []float32) {
	m.stages = append(m.stages, "embed")
}

func (m *recordingMonitor) AfterStoreQuery(results []core.ChunkResult) {
	m.stages = append(m.stages, "query")
	m.results = len(results)
}

func (m *recordingMonitor) Finish(_ *core.EvidenceBundle) {
	m.stages = append(m.stages, "finish")
}

func TestRetrieve_MonitorObservesStages(t *testing.T) {
	store := &mockChunkStore{
		results: []core.ChunkResult{{Content: "a", Score: 0.9}},
	}
	monitor := &recordingMonitor{}
	retriever, err := NewRetriever(mock.NewMockEmbedder(), store, WithMonitor(monitor))
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "the Dardanelles", 8)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "embed", "query", "finish"}, monitor.stages)
	assert.Equal(t, "the Dardanelles", monitor.query)
	assert.Equal(t, 1, monitor.results)
}

func TestRetrieve_MonitorStopsOnEmbeddingFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, core.ErrEmbeddingUnavailable
	}
	monitor := &recordingMonitor{}
	retriever, err := NewRetriever(embedder, &mockChunkStore{}, WithMonitor(monitor))
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "the Dardanelles", 8)
	require.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
	assert.Equal(t, []string{"start"}, monitor.stages)
}
