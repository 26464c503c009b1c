package businessRepo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fieldops/database"
	"fieldops/models"
)

// ErrNotFound is returned when no business matches the lookup.
var ErrNotFound = errors.New("business not found")

// BusinessRepository reads tenant records. The core never mutates them.
type BusinessRepository interface {
	GetByID(ctx context.Context, businessID string) (*models.Business, error)
	FindActive(ctx context.Context) ([]models.Business, error)
}

// MongoBusinessRepo implements BusinessRepository using MongoDB.
type MongoBusinessRepo struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepo creates a new BusinessRepository backed by MongoDB.
func NewMongoBusinessRepo() BusinessRepository {
	repo := &MongoBusinessRepo{coll: database.DB().Collection("businesses")}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create business indexes: %v", err)
	}
	return repo
}

func (r *MongoBusinessRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create business indexes: %w", err)
	}
	return nil
}

func (r *MongoBusinessRepo) GetByID(ctx context.Context, businessID string) (*models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var biz models.Business
	err := r.coll.FindOne(ctx, bson.M{"id": businessID}).Decode(&biz)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business %s: %w", businessID, err)
	}
	return &biz, nil
}

func (r *MongoBusinessRepo) FindActive(ctx context.Context) ([]models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to query active businesses: %w", err)
	}
	var businesses []models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode active businesses: %w", err)
	}
	return businesses, nil
}
