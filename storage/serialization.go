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

package storage

import (
	"time"

	"github.com/elonge/venetia-engine/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the two persisted record shapes. Field
// order is part of the on-disk format and must not change.
var (
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)

	// BucketEmbeddingMUS serializes core.BucketEmbedding values.
	BucketEmbeddingMUS = bucketEmbeddingSer{}
	// ConceptExpansionMUS serializes core.ConceptExpansion values.
	ConceptExpansionMUS = conceptExpansionSer{}
)

type bucketEmbeddingSer struct{}

func (bucketEmbeddingSer) Marshal(v core.BucketEmbedding, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.BucketStart.UTC().UnixMicro(), bs)
	n += ord.String.Marshal(string(v.Granularity), bs[n:])
	n += float32SliceMUS.Marshal(v.Embedding, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	return
}

func (bucketEmbeddingSer) Unmarshal(bs []byte) (v core.BucketEmbedding, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.BucketStart = time.UnixMicro(micros).UTC()
	var n1 int
	var g string
	g, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Granularity = core.Granularity(g)
	v.Embedding, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (bucketEmbeddingSer) Size(v core.BucketEmbedding) (size int) {
	size = varint.Int64.Size(v.BucketStart.UTC().UnixMicro())
	size += ord.String.Size(string(v.Granularity))
	size += float32SliceMUS.Size(v.Embedding)
	size += varint.Int.Size(v.ChunkCount)
	return
}

type conceptExpansionSer struct{}

func (conceptExpansionSer) Marshal(v core.ConceptExpansion, bs []byte) (n int) {
	n = ord.String.Marshal(v.Term, bs)
	n += ord.String.Marshal(v.Definition, bs[n:])
	n += stringSliceMUS.Marshal(v.Synonyms, bs[n:])
	n += stringSliceMUS.Marshal(v.Indicators, bs[n:])
	n += stringSliceMUS.Marshal(v.Exclusions, bs[n:])
	return
}

func (conceptExpansionSer) Unmarshal(bs []byte) (v core.ConceptExpansion, n int, err error) {
	v.Term, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Definition, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Synonyms, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Indicators, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Exclusions, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (conceptExpansionSer) Size(v core.ConceptExpansion) (size int) {
	size = ord.String.Size(v.Term)
	size += ord.String.Size(v.Definition)
	size += stringSliceMUS.Size(v.Synonyms)
	size += stringSliceMUS.Size(v.Indicators)
	size += stringSliceMUS.Size(v.Exclusions)
	return
}

// MarshalBucketEmbedding serializes a BucketEmbedding to bytes.
func MarshalBucketEmbedding(bucket *core.BucketEmbedding) []byte {
	buf := make([]byte, BucketEmbeddingMUS.Size(*bucket))
	BucketEmbeddingMUS.Marshal(*bucket, buf)
	return buf
}

// UnmarshalBucketEmbedding deserializes a BucketEmbedding from bytes.
func UnmarshalBucketEmbedding(data []byte) (*core.BucketEmbedding, error) {
	bucket, _, err := BucketEmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &bucket, nil
}

// MarshalConceptExpansion serializes a ConceptExpansion to bytes.
func MarshalConceptExpansion(expansion *core.ConceptExpansion) []byte {
	buf := make([]byte, ConceptExpansionMUS.Size(*expansion))
	ConceptExpansionMUS.Marshal(*expansion, buf)
	return buf
}

// UnmarshalConceptExpansion deserializes a ConceptExpansion from bytes.
func UnmarshalConceptExpansion(data []byte) (*core.ConceptExpansion, error) {
	expansion, _, err := ConceptExpansionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &expansion, nil
}
