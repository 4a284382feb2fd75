// Package mongo implements [store.Store] on MongoDB through the official
// driver.
//
// The canonical "id" field maps to Mongo's "_id" at the adapter boundary,
// so callers and the model layer only ever see "id". Identifiers are
// strings; inserts without one get a generated UUID.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/hasbyte1/go-modelbase/store"
)

const mongoIDField = "_id"

// Options configures a [Store].
type Options struct {
	// Logger receives operations at debug level. Document values are never
	// logged. Nil disables logging.
	Logger *zap.Logger
}

// Store is a MongoDB-backed [store.Store]. Collection names map directly
// to Mongo collections of the wrapped database.
type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

// New wraps a connected database handle.
func New(db *mongo.Database, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Connect dials uri and verifies the connection with a ping. The caller
// owns the returned client and its Disconnect.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

// Find returns the records matching filter, shaped by opts.
func (s *Store) Find(ctx context.Context, collection string, filter store.Record, opts store.FindOptions) ([]store.Record, error) {
	s.log.Debug("mongo find", zap.String("collection", collection))

	findOpts := options.Find()
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if len(opts.OrderBy) > 0 {
		sortDoc := bson.D{}
		for _, key := range opts.OrderBy {
			dir := 1
			name := key
			if strings.HasPrefix(key, "-") {
				dir = -1
				name = key[1:]
			}
			if name == store.IDField {
				name = mongoIDField
			}
			sortDoc = append(sortDoc, bson.E{Key: name, Value: dir})
		}
		findOpts.SetSort(sortDoc)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, encode(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: find: %w", err)
	}

	out := make([]store.Record, len(docs))
	for i, doc := range docs {
		out[i] = decode(doc)
	}
	return out, nil
}

// Get returns the record with the given id, or [store.ErrNotFound].
func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	s.log.Debug("mongo get", zap.String("collection", collection))

	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{mongoIDField: id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get: %w", err)
	}
	return decode(doc), nil
}

// Insert writes a new document, generating a UUID id when attrs carries
// none.
func (s *Store) Insert(ctx context.Context, collection string, attrs store.Record) (string, error) {
	s.log.Debug("mongo insert", zap.String("collection", collection))

	doc := encode(attrs)
	id, _ := doc[mongoIDField].(string)
	if id == "" {
		id = uuid.NewString()
		doc[mongoIDField] = id
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo: insert: %w", err)
	}
	return id, nil
}

// Update patches the document with the given id via $set.
func (s *Store) Update(ctx context.Context, collection, id string, attrs store.Record) error {
	s.log.Debug("mongo update", zap.String("collection", collection))

	doc := encode(attrs)
	delete(doc, mongoIDField)

	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("mongo: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes the document with the given id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.log.Debug("mongo delete", zap.String("collection", collection))

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{mongoIDField: id})
	if err != nil {
		return fmt.Errorf("mongo: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// encode renames "id" to "_id" on a copy of rec.
func encode(rec store.Record) bson.M {
	doc := make(bson.M, len(rec))
	for name, value := range rec {
		if name == store.IDField {
			doc[mongoIDField] = value
			continue
		}
		doc[name] = value
	}
	return doc
}

// decode renames "_id" back to "id" and normalizes driver types the rest
// of the module works with.
func decode(doc bson.M) store.Record {
	rec := make(store.Record, len(doc))
	for name, value := range doc {
		if name == mongoIDField {
			rec[store.IDField] = idString(value)
			continue
		}
		rec[name] = normalize(value)
	}
	return rec
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

func normalize(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(val))
		for name, item := range val {
			out[name] = normalize(item)
		}
		return out
	default:
		return v
	}
}

var _ store.Store = (*Store)(nil)
