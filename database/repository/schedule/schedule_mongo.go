package scheduleRepo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fieldops/database"
	"fieldops/models"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	blocksColl  *mongo.Collection
	timeOffColl *mongo.Collection
}

// NewMongoScheduleRepo creates a new ScheduleRepository backed by MongoDB.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.DB()
	repo := &MongoScheduleRepo{
		blocksColl:  db.Collection("schedule_blocks"),
		timeOffColl: db.Collection("time_off"),
	}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("failed to create schedule indexes: %v", err)
	}
	return repo
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.blocksColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
		Options: options.Index().SetName("business_day_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule block indexes: %w", err)
	}
	_, err = r.timeOffColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
		Options: options.Index().SetName("business_range_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create time off indexes: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) FindBlocksForDay(ctx context.Context, businessID string, dayOfWeek int, technicianID string) ([]models.ScheduleBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId":  businessID,
		"dayOfWeek":   dayOfWeek,
		"isAvailable": true,
	}
	// Without a technician filter every block applies; with one, the
	// technician's own rules and the business-wide rules both apply.
	if technicianID != "" {
		filter["$or"] = bson.A{
			bson.M{"technicianId": technicianID},
			bson.M{"technicianId": bson.M{"$exists": false}},
		}
	}

	cursor, err := r.blocksColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule blocks: %w", err)
	}
	var blocks []models.ScheduleBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode schedule blocks: %w", err)
	}
	return blocks, nil
}

func (r *MongoScheduleRepo) FindTimeOffForDate(ctx context.Context, businessID, date, technicianID string) ([]models.TimeOff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId": businessID,
		"startDate":  bson.M{"$lte": date},
		"endDate":    bson.M{"$gte": date},
	}
	if technicianID != "" {
		filter["$or"] = bson.A{
			bson.M{"technicianId": technicianID},
			bson.M{"technicianId": bson.M{"$exists": false}},
		}
	}

	cursor, err := r.timeOffColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query time off: %w", err)
	}
	var offs []models.TimeOff
	if err := cursor.All(ctx, &offs); err != nil {
		return nil, fmt.Errorf("failed to decode time off: %w", err)
	}
	return offs, nil
}
