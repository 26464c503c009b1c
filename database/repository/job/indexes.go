// File: database/repository/job/indexes.go
package jobRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the job collections.
func (r *MongoJobRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "confirmationCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_confirmation_code"),
		},
		// The double-booking guard: at most one live slot claim per
		// (businessId, scheduledDate, scheduledTimeStart, technicianId).
		// slotActive is cleared on cancellation, which frees the slot; jobs
		// with no technician or no scheduled time stay out of the index.
		{
			Keys: bson.D{
				{Key: "businessId", Value: 1},
				{Key: "scheduledDate", Value: 1},
				{Key: "scheduledTimeStart", Value: 1},
				{Key: "technicianId", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_slot_claim").
				SetPartialFilterExpression(bson.D{
					{Key: "slotActive", Value: true},
					{Key: "technicianId", Value: bson.D{{Key: "$exists", Value: true}}},
					{Key: "scheduledTimeStart", Value: bson.D{{Key: "$exists", Value: true}}},
				}),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "status", Value: 1}, {Key: "technicianId", Value: 1}},
			Options: options.Index().SetName("business_status_tech_idx"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index().SetName("business_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}

	childIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	for _, coll := range []*mongo.Collection{r.historyColl, r.notesColl, r.photosColl} {
		if _, err := coll.Indexes().CreateMany(ctx, childIndexes); err != nil {
			return fmt.Errorf("failed to create job child indexes: %w", err)
		}
	}
	return nil
}
