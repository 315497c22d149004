package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mopts "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/cachesession/core/cache"
)

// DefaultCollection holds entries unless WithCollection overrides it.
const DefaultCollection = "session_cache"

type entry struct {
	Key       string     `bson:"_id"`
	Value     []byte     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// Store keeps entries as documents. A TTL index on expires_at lets the
// server purge them; Get also filters on it since the purge runs about once
// a minute.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	collection string
	now        func() time.Time
}

// WithCollection sets the collection name.
func WithCollection(name string) Option {
	return func(o *options) {
		if name != "" {
			o.collection = name
		}
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns a store on db. Call EnsureIndexes once before use.
func New(db *mongo.Database, opts ...Option) *Store {
	o := options{collection: DefaultCollection, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{coll: db.Collection(o.collection), now: o.now}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: mopts.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	filter := bson.D{
		{Key: "_id", Value: key},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now()}}}},
		}},
	}

	var e entry
	err := s.coll.FindOne(ctx, filter).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

// Set implements cache.Store. A ttl <= 0 stores the document without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{Key: key, Value: value}
	if ttl > 0 {
		t := s.now().Add(ttl)
		e.ExpiresAt = &t
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, e, mopts.Replace().SetUpsert(true))
	return err
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	return err
}

var _ cache.Store = (*Store)(nil)
