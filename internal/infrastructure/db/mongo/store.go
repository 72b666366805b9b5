package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// Store implements ports.DocumentStore on a MongoDB database. Documents keep
// their identity in _id (a plain string, not an ObjectID) so caller-supplied
// seed ids survive round trips.
type Store struct {
	db  *mongo.Database
	log zerolog.Logger
}

// NewStore wraps a connected database as a DocumentStore.
func NewStore(db *mongo.Database, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", "mongo_store").Logger()}
}

var _ ports.DocumentStore = (*Store)(nil)

// Subscribe delivers the current contents immediately, then re-reads and
// re-delivers after every change-stream event until cancelled. Mongo provides
// no cross-client ordering beyond what the change feed delivers; the last
// write to land wins.
func (s *Store) Subscribe(ctx context.Context, collection string, fn ports.SnapshotFunc) (ports.CancelFunc, error) {
	docs, err := s.readAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	fn(docs)

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("mongo watch %s: %w", collection, err)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			snapshot, err := s.readAll(streamCtx, collection)
			if err != nil {
				s.log.Error().Err(err).Str("collection", collection).Msg("snapshot refresh failed")
				continue
			}
			fn(snapshot)
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.Error().Err(err).Str("collection", collection).Msg("change stream terminated")
		}
	}()

	return ports.CancelFunc(cancel), nil
}

func (s *Store) Save(ctx context.Context, collection string, doc domain.Document) (string, error) {
	id := doc.ID()
	if !doc.HasPersistentID() {
		id = uuid.NewString()
	}

	fields := bson.M{}
	for k, v := range doc {
		if k != domain.FieldID {
			fields[k] = v
		}
	}

	_, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", fmt.Errorf("mongo save %s/%s: %w", collection, id, err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		if k != domain.FieldID {
			set[k] = v
		}
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) SeedIfEmpty(ctx context.Context, collection string, docs []domain.Document) error {
	coll := s.db.Collection(collection)
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("mongo count %s: %w", collection, err)
	}
	if n > 0 || len(docs) == 0 {
		return nil
	}

	s.log.Info().Str("collection", collection).Int("count", len(docs)).Msg("seeding empty collection")
	rows := make([]any, 0, len(docs))
	for _, doc := range docs {
		row := bson.M{"_id": doc.ID()}
		for k, v := range doc {
			if k != domain.FieldID {
				row[k] = v
			}
		}
		rows = append(rows, row)
	}
	if _, err := coll.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("mongo seed %s: %w", collection, err)
	}
	return nil
}

func (s *Store) readAll(ctx context.Context, collection string) ([]domain.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []domain.Document
	for cur.Next(ctx) {
		var row bson.M
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", collection, err)
		}
		docs = append(docs, fromBson(row))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collection, err)
	}
	return docs, nil
}

// fromBson converts a raw row into a document: _id becomes the id field and
// driver primitive types become plain Go values.
func fromBson(row bson.M) domain.Document {
	doc := make(domain.Document, len(row))
	for k, v := range row {
		if k == "_id" {
			k = domain.FieldID
		}
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = normalize(inner)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = normalize(inner)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return int(t)
	case int64:
		return int(t)
	default:
		return v
	}
}
