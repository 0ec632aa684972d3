package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emailportal/portal-client/internal/core/domain"
)

const sessionCollection = "session_entries"

// SessionStore is a ports.KeyValueStore keeping one document per key.
type SessionStore struct {
	coll *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionCollection)}
}

type sessionEntry struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	var e sessionEntry
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrEntryNotFound
		}
		return "", fmt.Errorf("find session entry: %w", err)
	}
	return e.Value, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	doc := sessionEntry{Key: key, Value: value, UpdatedAt: time.Now().Unix()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session entry: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("delete session entries: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *SessionStore) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}
