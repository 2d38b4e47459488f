// Package qdrant provides a Qdrant vector database driver implementation
// over its gRPC API.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection name for storing
	// document passages.
	DefaultCollectionName = "askdocs"

	// DefaultPort is the default Qdrant gRPC port.
	DefaultPort = 6334
)

// payload keys reserved by the driver alongside user metadata.
const (
	payloadDocID   = "doc_id"
	payloadContent = "content"
)

// QdrantDriver implements vector.Driver using Qdrant's gRPC API.
type QdrantDriver struct {
	client         *qd.Client
	collectionName string
	logger         *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Host is the Qdrant server host. Required.
	Host string

	// Port is the Qdrant gRPC port. Defaults to DefaultPort if zero.
	Port int

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the number of dimensions for the embedding vectors,
	// used when the collection has to be created.
	Dimensions uint
}

// NewQdrantDriver creates a new Qdrant vector driver and ensures the
// collection exists.
func NewQdrantDriver(c Config, logger *zap.Logger) (*QdrantDriver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}

	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	client, err := qd.NewClient(&qd.Config{
		Host: c.Host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}

	d := &QdrantDriver{
		client:         client,
		collectionName: collectionName,
		logger:         logger,
	}

	if err := d.ensureCollection(context.Background(), c.Dimensions); err != nil {
		client.Close()
		return nil, fmt.Errorf("ensuring collection %q: %w", collectionName, err)
	}

	logger.Info("connected to Qdrant",
		zap.String("host", c.Host),
		zap.Int("port", port),
		zap.String("collection", collectionName),
	)

	return d, nil
}

func (d *QdrantDriver) ensureCollection(ctx context.Context, dimensions uint) error {
	exists, err := d.client.CollectionExists(ctx, d.collectionName)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	if exists {
		return nil
	}

	err = d.client.CreateCollection(ctx, &qd.CreateCollection{
		CollectionName: d.collectionName,
		VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
			Size:     uint64(dimensions),
			Distance: qd.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// pointID derives a deterministic UUID point ID from a document ID, since
// Qdrant only accepts UUIDs or integers as point IDs.
func pointID(docID string) *qd.PointId {
	return qd.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)).String())
}

// Add stores documents with their embeddings. The original document ID and
// the content are carried in the payload next to the user metadata.
func (d *QdrantDriver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qd.PointStruct, len(docs))
	for i, doc := range docs {
		payload := map[string]any{
			payloadDocID:   doc.ID,
			payloadContent: doc.Content,
		}
		for k, v := range doc.Metadata {
			payload[k] = v
		}

		points[i] = &qd.PointStruct{
			Id:      pointID(doc.ID),
			Vectors: qd.NewVectors(doc.Embedding...),
			Payload: qd.NewValueMap(payload),
		}
	}

	_, err := d.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: d.collectionName,
		Points:         points,
		Wait:           qd.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	d.logger.Debug("added documents to qdrant",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding,
// optionally constrained by a filter expression. The filter's "ne" operator
// maps onto a must_not match condition.
func (d *QdrantDriver) Query(ctx context.Context, embedding []float32, filter string, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	parsed, err := vector.ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	req := &qd.QueryPoints{
		CollectionName: d.collectionName,
		Query:          qd.NewQuery(embedding...),
		Limit:          qd.PtrOf(uint64(topK)),
		WithPayload:    qd.NewWithPayload(true),
	}
	if parsed != nil {
		req.Filter = &qd.Filter{
			MustNot: []*qd.Condition{
				qd.NewMatch(parsed.Field, parsed.Value),
			},
		}
	}

	points, err := d.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	results := make([]vector.QueryResult, 0, len(points))
	for _, point := range points {
		doc := vector.Document{
			Metadata: map[string]any{},
		}

		for k, v := range point.Payload {
			switch k {
			case payloadDocID:
				doc.ID = v.GetStringValue()
			case payloadContent:
				doc.Content = v.GetStringValue()
			default:
				doc.Metadata[k] = payloadValue(v)
			}
		}

		results = append(results, vector.QueryResult{
			Document: doc,
			Score:    point.Score,
		})
	}

	d.logger.Debug("queried qdrant",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// payloadValue converts a qdrant payload value back to a plain Go value.
func payloadValue(v *qd.Value) any {
	switch kind := v.GetKind().(type) {
	case *qd.Value_StringValue:
		return kind.StringValue
	case *qd.Value_IntegerValue:
		return kind.IntegerValue
	case *qd.Value_DoubleValue:
		return kind.DoubleValue
	case *qd.Value_BoolValue:
		return kind.BoolValue
	default:
		return v.String()
	}
}

// Delete removes documents by their IDs.
func (d *QdrantDriver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qd.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	_, err := d.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: d.collectionName,
		Points:         qd.NewPointsSelector(pointIDs...),
		Wait:           qd.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("deleting points: %w", err)
	}

	d.logger.Debug("deleted documents from qdrant",
		zap.Int("count", len(ids)),
	)

	return nil
}

// Close releases resources held by the driver.
func (d *QdrantDriver) Close() error {
	return d.client.Close()
}
