package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogCollectionName = "catalog_entries"

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(catalogCollectionName),
	}
}

// Create inserts a new catalog entry and returns its id.
func (r *mongoCatalogRepository) Create(ctx context.Context, entry *domain.CatalogEntry) (string, error) {
	if entry.Name == "" {
		return "", errors.New("catalog entry name is required")
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// GetByName retrieves a catalog entry by its exact display name.
func (r *mongoCatalogRepository) GetByName(ctx context.Context, name string) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByID retrieves a catalog entry by its id.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EnsureCatalogIndexes creates necessary indexes for the catalog collection.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
