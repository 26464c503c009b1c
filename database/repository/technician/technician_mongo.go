package technicianRepo

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

// ErrNotFound is returned when no technician matches the lookup.
var ErrNotFound = errors.New("technician not found")

// TechnicianRepository reads and writes technician records.
type TechnicianRepository interface {
	Insert(ctx context.Context, tech *models.Technician) error
	GetByID(ctx context.Context, businessID, techID string) (*models.Technician, error)
	FindActive(ctx context.Context, businessID string) ([]models.Technician, error)
}

// MongoTechnicianRepo implements TechnicianRepository using MongoDB.
type MongoTechnicianRepo struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepo creates a new TechnicianRepository backed by MongoDB.
func NewMongoTechnicianRepo() TechnicianRepository {
	repo := &MongoTechnicianRepo{coll: database.DB().Collection("technicians")}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create technician indexes: %v", err)
	}
	return repo
}

func (r *MongoTechnicianRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create technician indexes: %w", err)
	}
	return nil
}

func (r *MongoTechnicianRepo) Insert(ctx context.Context, tech *models.Technician) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tech); err != nil {
		return fmt.Errorf("failed to insert technician: %w", err)
	}
	return nil
}

func (r *MongoTechnicianRepo) GetByID(ctx context.Context, businessID, techID string) (*models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tech models.Technician
	err := r.coll.FindOne(ctx, bson.M{"id": techID, "businessId": businessID}).Decode(&tech)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch technician %s: %w", techID, err)
	}
	return &tech, nil
}

func (r *MongoTechnicianRepo) FindActive(ctx context.Context, businessID string) ([]models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"businessId": businessID, "isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to query active technicians: %w", err)
	}
	var techs []models.Technician
	if err := cursor.All(ctx, &techs); err != nil {
		return nil, fmt.Errorf("failed to decode active technicians: %w", err)
	}
	return techs, nil
}
