package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores slots as documents keyed by _id.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoSlot struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoBackend connects to uri and uses database.collection.
func NewMongoBackend(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Get returns the document stored under key.
func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc mongoSlot
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mongoError("find", err)
	}
	return doc.Data, true, nil
}

// Set upserts the document for key.
func (b *MongoBackend) Set(ctx context.Context, key string, data []byte) error {
	doc := mongoSlot{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return mongoError("replace", err)
	}
	return nil
}

// Delete removes the document for key.
func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return mongoError("delete", err)
	}
	return nil
}

// Close disconnects the client.
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

// Name returns "mongo".
func (b *MongoBackend) Name() string { return "mongo" }

func mongoError(op string, err error) error {
	wrapped := fmt.Errorf("mongo %s: %w", op, err)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(wrapped)
	}
	return wrapped
}

var _ Backend = (*MongoBackend)(nil)
