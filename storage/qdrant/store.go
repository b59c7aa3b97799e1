package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// Payload field names used for chunk points. Part of the stored format.
const (
	payloadContent    = "content"
	payloadSource     = "source"
	payloadTitle      = "document_title"
	payloadChunkIndex = "chunk_index"
	payloadDate       = "date"
)

// listSourcesPageSize bounds one scroll page when enumerating sources.
const listSourcesPageSize = 256

// pointsAPI is the subset of pb.PointsClient the store uses.
// Narrowed so tests can substitute mocks.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Scroll(ctx context.Context, in *pb.ScrollPoints, opts ...grpc.CallOption) (*pb.ScrollResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient the store uses.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// ChunkStore implements storage.ChunkStore backed by a Qdrant collection.
type ChunkStore struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	collection  string
	logger      *slog.Logger
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore connects to Qdrant at the given gRPC address.
func NewChunkStore(addr, collection string) (*ChunkStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: dial qdrant %s: %w", core.ErrStoreUnavailable, addr, err)
	}
	return &ChunkStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		logger:      slog.Default().With("component", "qdrant"),
	}, nil
}

// NewWithClients creates a ChunkStore from pre-built clients. Used by tests.
func NewWithClients(points pointsAPI, collections collectionsAPI, collection string) *ChunkStore {
	return &ChunkStore{
		points:      points,
		collections: collections,
		collection:  collection,
		logger:      slog.Default().With("component", "qdrant"),
	}
}

// Close closes the underlying gRPC connection.
func (s *ChunkStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (s *ChunkStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", core.ErrStoreUnavailable, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection %s: %w", core.ErrStoreUnavailable, s.collection, err)
	}
	s.logger.Info("created collection", "collection", s.collection, "dims", dims)
	return nil
}

// Query finds the k chunks most similar to the given vector.
func (s *ChunkStore) Query(ctx context.Context, vector []float32, k int) ([]core.ChunkResult, error) {
	if k <= 0 || len(vector) == 0 {
		return nil, fmt.Errorf("%w: vector and positive k required", storage.ErrInvalidQuery)
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", core.ErrStoreUnavailable, err)
	}

	results := make([]core.ChunkResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		cr := core.ChunkResult{Score: r.GetScore()}
		for key, val := range r.GetPayload() {
			switch key {
			case payloadContent:
				cr.Content = val.GetStringValue()
			case payloadSource:
				cr.Source = val.GetStringValue()
			case payloadTitle:
				cr.DocumentTitle = val.GetStringValue()
			case payloadChunkIndex:
				cr.ChunkIndex = int(val.GetIntegerValue())
			}
		}
		results[i] = cr
	}
	return results, nil
}

// UpsertChunks writes embedded chunks into the collection, replacing chunks
// with the same derived ID.
func (s *ChunkStore) UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s#%d has no embedding", storage.ErrInvalidQuery, chunk.Source, chunk.ChunkIndex)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(chunk.ID())},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: chunk.Embedding},
				},
			},
			Payload: map[string]*pb.Value{
				payloadContent:    {Kind: &pb.Value_StringValue{StringValue: chunk.Content}},
				payloadSource:     {Kind: &pb.Value_StringValue{StringValue: chunk.Source}},
				payloadTitle:      {Kind: &pb.Value_StringValue{StringValue: chunk.DocumentTitle}},
				payloadChunkIndex: {Kind: &pb.Value_IntegerValue{IntegerValue: int64(chunk.ChunkIndex)}},
				payloadDate:       {Kind: &pb.Value_IntegerValue{IntegerValue: chunk.Date.UTC().Unix()}},
			},
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert %d points: %w", core.ErrStoreUnavailable, len(points), err)
	}
	return nil
}

// ScrollChunks pages through the whole collection returning every chunk with
// its stored embedding. Used by offline bucket rebuilds.
func (s *ChunkStore) ScrollChunks(ctx context.Context) ([]*core.Chunk, error) {
	limit := uint32(listSourcesPageSize)
	var offset *pb.PointId
	var chunks []*core.Chunk

	for {
		resp, err := s.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &pb.WithPayloadSelector{
				SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
			},
			WithVectors: &pb.WithVectorsSelector{
				SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scroll: %w", core.ErrStoreUnavailable, err)
		}

		for _, point := range resp.GetResult() {
			chunk := &core.Chunk{
				Embedding: point.GetVectors().GetVector().GetData(),
			}
			for key, val := range point.GetPayload() {
				switch key {
				case payloadContent:
					chunk.Content = val.GetStringValue()
				case payloadSource:
					chunk.Source = val.GetStringValue()
				case payloadTitle:
					chunk.DocumentTitle = val.GetStringValue()
				case payloadChunkIndex:
					chunk.ChunkIndex = int(val.GetIntegerValue())
				case payloadDate:
					if secs := val.GetIntegerValue(); secs != 0 {
						chunk.Date = time.Unix(secs, 0).UTC()
					}
				}
			}
			chunks = append(chunks, chunk)
		}

		offset = resp.GetNextPageOffset()
		if offset == nil || len(resp.GetResult()) == 0 {
			break
		}
	}

	return chunks, nil
}

// ListSources scrolls the collection collecting distinct source identifiers.
func (s *ChunkStore) ListSources(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	limit := uint32(listSourcesPageSize)
	var offset *pb.PointId

	for {
		resp, err := s.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &pb.WithPayloadSelector{
				SelectorOptions: &pb.WithPayloadSelector_Include{
					Include: &pb.PayloadIncludeSelector{Fields: []string{payloadSource}},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scroll: %w", core.ErrStoreUnavailable, err)
		}

		for _, point := range resp.GetResult() {
			if source := point.GetPayload()[payloadSource].GetStringValue(); source != "" {
				seen[source] = struct{}{}
			}
		}

		offset = resp.GetNextPageOffset()
		if offset == nil || len(resp.GetResult()) == 0 {
			break
		}
	}

	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources, nil
}
