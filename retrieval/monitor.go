package retrieval

import "github.com/elonge/venetia-engine/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during
// retrieval.
type Monitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterStoreQuery(results []core.ChunkResult)
	Finish(bundle *core.EvidenceBundle)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterEmbedding(_ []float32)           {}
func (n *noopMonitor) AfterStoreQuery(_ []core.ChunkResult) {}
func (n *noopMonitor) Finish(_ *core.EvidenceBundle)        {}
