package badger

import (
	"encoding/binary"
	"time"

	"github.com/elonge/venetia-engine/core"
)

// Key prefixes for different data types
const (
	bucketPrefix  = "bucemb"
	conceptPrefix = "conexp"
)

// makeBucketKey generates a composite key for a bucket embedding.
// Format: prefix:granularity:start
func makeBucketKey(g core.Granularity, start time.Time) []byte {
	prefix := bucketPrefix + ":" + string(g) + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(start.UTC().UnixMicro()))
	return buf
}

// makeBucketPrefix generates the iteration prefix for all buckets of a granularity.
func makeBucketPrefix(g core.Granularity) []byte {
	return []byte(bucketPrefix + ":" + string(g) + ":")
}

// makeConceptKey generates a key for a cached concept expansion.
// The term must already be normalized.
func makeConceptKey(term string) []byte {
	return []byte(conceptPrefix + ":" + term)
}
