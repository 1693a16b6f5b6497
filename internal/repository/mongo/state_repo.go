package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollectionName = "session_state"

// stateDocument wraps the serialized state record. The payload is opaque to
// this layer; versioning and migration live in the state codec.
type stateDocument struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoStateRepository implements repository.StateRepository on a single
// document keyed by the configured storage key.
type mongoStateRepository struct {
	collection *mongo.Collection
	key        string
}

// NewMongoStateRepository creates a state repository backed by MongoDB.
func NewMongoStateRepository(db *mongo.Database, key string) repository.StateRepository {
	return &mongoStateRepository{
		collection: db.Collection(stateCollectionName),
		key:        key,
	}
}

// Save upserts the state record, replacing any prior payload.
func (r *mongoStateRepository) Save(ctx context.Context, payload []byte) error {
	filter := bson.M{"_id": r.key}
	update := bson.M{
		"$set": bson.M{
			"payload":   payload,
			"updatedAt": time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Load returns the last saved payload, or repository.ErrNotFound when no
// record has ever been written.
func (r *mongoStateRepository) Load(ctx context.Context) ([]byte, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.Payload, nil
}

// Delete removes the state record entirely.
func (r *mongoStateRepository) Delete(ctx context.Context) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": r.key})
	return err
}
