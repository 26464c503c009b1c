package reservationRepo

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

// ErrNotFound is returned when no reservation matches the token.
var ErrNotFound = errors.New("reservation not found")

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo creates a new ReservationRepository backed by MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	repo := &MongoReservationRepo{coll: database.DB().Collection("slot_reservations")}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create reservation indexes: %v", err)
	}
	return repo
}

func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_token"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "slotDate", Value: 1}},
			Options: options.Index().SetName("business_date_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.SlotReservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) GetByToken(ctx context.Context, businessID, token string) (*models.SlotReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.SlotReservation
	err := r.coll.FindOne(ctx, bson.M{"token": token, "businessId": businessID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return &res, nil
}

func (r *MongoReservationRepo) Confirm(ctx context.Context, businessID, token, jobID string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// One guarded update: the filter is the idempotence check. A second
	// confirm, or a confirm after expiry, matches nothing.
	filter := bson.M{
		"token":       token,
		"businessId":  businessID,
		"isConfirmed": false,
		"expiresAt":   bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"isConfirmed": true,
		"jobId":       jobID,
		"confirmedAt": now,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoReservationRepo) FindActiveByDate(ctx context.Context, businessID, date string, now time.Time) ([]models.SlotReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId":  businessID,
		"slotDate":    date,
		"isConfirmed": false,
		"expiresAt":   bson.M{"$gt": now},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reservations: %w", err)
	}
	var holds []models.SlotReservation
	if err := cursor.All(ctx, &holds); err != nil {
		return nil, fmt.Errorf("failed to decode active reservations: %w", err)
	}
	return holds, nil
}
