package ingestion

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultChunkSize is the target chunk length in estimated tokens.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the overlap between consecutive chunks in
	// estimated tokens.
	DefaultChunkOverlap = 200

	// charsPerToken is the rough character-to-token ratio used for sizing.
	// Letters are prose, so four characters per token is close enough.
	charsPerToken = 4
)

var datePrefixPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// Chunker splits document text into overlapping chunks sized for embedding.
type Chunker struct {
	chunkSize int // target size in estimated tokens
	overlap   int // overlap in estimated tokens
}

// NewChunker creates a Chunker. Non-positive arguments fall back to the
// defaults; an overlap at or above the chunk size is clamped below it so
// splitting always advances.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// EstimateTokens approximates the token count of text.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Split breaks text into overlapping chunks. Each chunk targets the
// configured token size and prefers to end on a sentence boundary when one
// falls in the second half of the chunk. Whitespace-only chunks are dropped.
func (c *Chunker) Split(text string) []string {
	maxChars := c.chunkSize * charsPerToken
	overlapChars := c.overlap * charsPerToken

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end > len(text) {
			end = len(text)
		}

		segment := text[start:end]
		if end < len(text) {
			if cut := sentenceBreak(segment); cut > len(segment)/2 {
				segment = segment[:cut]
				end = start + cut
			}
		}

		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		if end >= len(text) {
			break
		}
		next := end - overlapChars
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// sentenceBreak returns the index just past the last sentence-ending
// punctuation or newline in segment, or -1 when none is found.
func sentenceBreak(segment string) int {
	best := -1
	for _, marker := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(segment, marker); idx+1 > best {
			best = idx + 1
		}
	}
	if idx := strings.LastIndex(segment, "\n"); idx > best {
		best = idx
	}
	return best
}

// SourceName derives a stable source identifier from a document file path:
// the base name without its .txt or .md extension, lowercased, with every
// non-alphanumeric character replaced by an underscore.
func SourceName(path string) string {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".txt" || ext == ".md" {
		name = name[:len(name)-len(ext)]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DocumentTitle derives a human-readable title from a document file path:
// the base name without its extension.
func DocumentTitle(path string) string {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".txt" || ext == ".md" {
		name = name[:len(name)-len(ext)]
	}
	return name
}

// DocumentDate extracts a letter date from a file path whose base name
// starts with an ISO date, e.g. "1914-07-30 to venetia.txt". Returns the
// zero time when no date prefix is present.
func DocumentDate(path string) time.Time {
	match := datePrefixPattern.FindString(filepath.Base(path))
	if match == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
