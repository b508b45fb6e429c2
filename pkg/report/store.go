package report

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ghtopdep/ghtopdep/pkg/scrape"
)

// Record is one stored result set, as kept by the development server.
type Record struct {
	ID         string         `json:"id" bson:"id"`
	URL        string         `json:"url" bson:"url"`
	Owner      string         `json:"owner" bson:"owner"`
	Repository string         `json:"repository" bson:"repository"`
	Deps       []scrape.Entry `json:"deps" bson:"deps"`
	ReceivedAt time.Time      `json:"received_at" bson:"received_at"`
}

// Store persists result sets keyed by owner/repo. Get returns [ErrNotFound]
// when no record exists; Put overwrites any previous record for the same
// repository.
type Store interface {
	Get(ctx context.Context, owner, repo string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Close(ctx context.Context) error
}

// =============================================================================
// In-memory store
// =============================================================================

// MemoryStore keeps records in a map. It is the default backend for the
// development server; contents vanish with the process.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*Record)}
}

func (s *MemoryStore) Get(_ context.Context, owner, repo string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[owner+"/"+repo]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Owner+"/"+rec.Repository] = rec
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// =============================================================================
// Redis store
// =============================================================================

// RedisStore persists records as JSON values under "repos:<owner>/<repo>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at the given URL
// (e.g. "redis://localhost:6379/0").
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func redisKey(owner, repo string) string { return "repos:" + owner + "/" + repo }

func (s *RedisStore) Get(ctx context.Context, owner, repo string) (*Record, error) {
	data, err := s.client.Get(ctx, redisKey(owner, repo)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(rec.Owner, rec.Repository), data, 0).Err()
}

func (s *RedisStore) Close(context.Context) error { return s.client.Close() }

// =============================================================================
// MongoDB store
// =============================================================================

// MongoStore persists records in the "repos" collection of the "ghtopdep"
// database, one document per repository.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB instance at the given URI
// (e.g. "mongodb://localhost:27017").
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &MongoStore{
		client: client,
		coll:   client.Database("ghtopdep").Collection("repos"),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, owner, repo string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"owner": owner, "repository": repo}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"owner": rec.Owner, "repository": rec.Repository},
		rec,
		options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }
