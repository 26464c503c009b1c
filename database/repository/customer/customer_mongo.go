package customerRepo

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

// ErrNotFound is returned when no customer or address matches the lookup.
var ErrNotFound = errors.New("customer not found")

// CustomerRepository reads and writes customer and address records.
type CustomerRepository interface {
	Insert(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, businessID, customerID string) (*models.Customer, error)
	AddAddress(ctx context.Context, address *models.CustomerAddress) error
	GetAddress(ctx context.Context, addressID string) (*models.CustomerAddress, error)
}

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll        *mongo.Collection
	addressColl *mongo.Collection
}

// NewMongoCustomerRepo creates a new CustomerRepository backed by MongoDB.
func NewMongoCustomerRepo() CustomerRepository {
	db := database.DB()
	repo := &MongoCustomerRepo{
		coll:        db.Collection("customers"),
		addressColl: db.Collection("customer_addresses"),
	}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create customer indexes: %v", err)
	}
	return repo
}

func (r *MongoCustomerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}
	_, err = r.addressColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create address indexes: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) Insert(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) GetByID(ctx context.Context, businessID, customerID string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	err := r.coll.FindOne(ctx, bson.M{"id": customerID, "businessId": businessID}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %s: %w", customerID, err)
	}
	return &customer, nil
}

func (r *MongoCustomerRepo) AddAddress(ctx context.Context, address *models.CustomerAddress) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.addressColl.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) GetAddress(ctx context.Context, addressID string) (*models.CustomerAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var address models.CustomerAddress
	err := r.addressColl.FindOne(ctx, bson.M{"id": addressID}).Decode(&address)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch address %s: %w", addressID, err)
	}
	return &address, nil
}
