package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing so that identical content
// always maps to the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn written by the person asking questions.
	RoleUser Role = "user"
	// RoleAssistant marks a turn written by the answering model.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction turn. Caller-supplied system turns are
	// filtered out before generation; only the engine's own system messages lead.
	RoleSystem Role = "system"
)

// Turn is a single message in a conversation. An ordered slice of turns forms
// the conversation history; insertion order is chronological and preserved.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChunkResult is a retrieved unit of source text with its similarity score.
// Results are read-only downstream of retrieval, and ordering by descending
// score is a contract, not incidental.
type ChunkResult struct {
	Content       string
	Source        string
	DocumentTitle string // optional; empty when the source has no display title
	ChunkIndex    int
	Score         float32
}

// Title returns the document title, falling back to the source identifier.
func (c ChunkResult) Title() string {
	if c.DocumentTitle != "" {
		return c.DocumentTitle
	}
	return c.Source
}

// SourceRef is the citation payload for one retrieved chunk, emitted with the
// final stream event so the UI can number citations consistently with the
// "[Source N]" labels used in generated text.
type SourceRef struct {
	Source        string  `json:"source"`
	DocumentTitle string  `json:"documentTitle,omitempty"`
	ChunkIndex    int     `json:"chunkIndex"`
	Score         float32 `json:"score"`
}

// EvidenceBundle is the ordered set of chunks selected for a single query,
// plus the reformulated query string used to obtain them. Created per request,
// discarded after the response completes.
type EvidenceBundle struct {
	Query  string
	Chunks []ChunkResult
}

// Empty reports whether retrieval produced no evidence. Downstream consumers
// must treat this as a distinct no-evidence state, not as an error.
func (b *EvidenceBundle) Empty() bool {
	return b == nil || len(b.Chunks) == 0
}

// Sources returns citation refs in retrieval ranking order.
func (b *EvidenceBundle) Sources() []SourceRef {
	if b == nil {
		return []SourceRef{}
	}
	refs := make([]SourceRef, len(b.Chunks))
	for i, c := range b.Chunks {
		refs[i] = SourceRef{
			Source:        c.Source,
			DocumentTitle: c.DocumentTitle,
			ChunkIndex:    c.ChunkIndex,
			Score:         c.Score,
		}
	}
	return refs
}

// Chunk is one ingestible unit of source text. Chunks are produced by the
// ingestion pipeline, embedded, and upserted into the chunk store; Date drives
// bucket aggregation.
type Chunk struct {
	Content       string
	Source        string
	DocumentTitle string
	ChunkIndex    int
	Date          time.Time
	Embedding     []float32
}

// ID derives a deterministic identifier for the chunk, so re-ingesting the
// same corpus overwrites rather than duplicates.
func (c *Chunk) ID() ID {
	return IDFromContent(c.Source + "#" + strconv.Itoa(c.ChunkIndex) + "#" + c.Content)
}

// Granularity is the calendar interval over which source material is
// aggregated into one bucket embedding.
type Granularity string

const (
	// GranularityWeek buckets start on Mondays.
	GranularityWeek Granularity = "week"
	// GranularityMonth buckets start on the first of the month.
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a string to a Granularity, defaulting to week.
func ParseGranularity(s string) Granularity {
	if strings.EqualFold(strings.TrimSpace(s), string(GranularityMonth)) {
		return GranularityMonth
	}
	return GranularityWeek
}

// Truncate returns the start of the bucket containing t, in UTC.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if g == GranularityMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	// Week buckets start on Monday.
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-daysSinceMonday, 0, 0, 0, 0, time.UTC)
}

// Next returns the start of the bucket following the one starting at t.
func (g Granularity) Next(t time.Time) time.Time {
	t = t.UTC()
	if g == GranularityMonth {
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t.AddDate(0, 0, 7)
}

// ConceptExpansion is a structured elaboration of an abstract term, used to
// build a richer embedding than the bare term would produce. It is a pure
// function of the term (modulo model nondeterminism) and safe to cache keyed
// by the normalized term.
type ConceptExpansion struct {
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Synonyms   []string `json:"synonyms"`
	Indicators []string `json:"indicators"`
	Exclusions []string `json:"exclusions"`
}

// EmbeddingText renders the expansion into the text block that gets embedded.
// The field order is fixed so two identical expansions embed identically.
func (e *ConceptExpansion) EmbeddingText() string {
	lines := []string{
		"Term: " + e.Term,
		"Definition: " + e.Definition,
		"Synonyms: " + strings.Join(e.Synonyms, ", "),
		"Indicators: " + strings.Join(e.Indicators, " | "),
	}
	if len(e.Exclusions) > 0 {
		lines = append(lines, "Not this: "+strings.Join(e.Exclusions, " | "))
	}
	return strings.Join(lines, "\n")
}

// NormalizeTerm canonicalizes a concept term for cache keys and lookups.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// BucketEmbedding is the aggregate semantic content of all source material
// created within one time bucket. Precomputed and immutable; the signal
// pipeline only reads these.
type BucketEmbedding struct {
	BucketStart time.Time
	Granularity Granularity
	Embedding   []float32
	ChunkCount  int
}

// TimeSeriesPoint is one derived point of a concept intensity series.
// The full series is recomputed per request and never persisted.
type TimeSeriesPoint struct {
	BucketStart time.Time `json:"bucketStart"`
	Raw         float64   `json:"raw"`
	Smoothed    float64   `json:"smooth"`
	Normalized  float64   `json:"norm"`
	ChunkCount  int       `json:"chunkCount,omitempty"`
}
