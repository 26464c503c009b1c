// File: database/repository/job/jobMongoQueries.go
package jobRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fieldops/models"
)

func (r *MongoJobRepo) FindScheduledByDate(ctx context.Context, businessID, date, technicianID string) ([]models.Job, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId":    businessID,
		"scheduledDate": date,
		"status":        bson.M{"$ne": models.JobStatusCancelled},
	}
	if technicianID != "" {
		filter["technicianId"] = technicianID
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs for %s: %w", date, err)
	}
	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs for %s: %w", date, err)
	}
	return jobs, nil
}

func (r *MongoJobRepo) FindPendingUnassigned(ctx context.Context, businessID string) ([]models.Job, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId":   businessID,
		"status":       models.JobStatusPending,
		"technicianId": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending unassigned jobs: %w", err)
	}
	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode pending unassigned jobs: %w", err)
	}
	return jobs, nil
}

func (r *MongoJobRepo) List(ctx context.Context, businessID string, filter ListFilter) ([]models.Job, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"businessId": businessID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TechnicianID != "" {
		query["technicianId"] = filter.TechnicianID
	}
	if filter.CustomerID != "" {
		query["customerId"] = filter.CustomerID
	}
	dateRange := bson.M{}
	if filter.DateFrom != "" {
		dateRange["$gte"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["scheduledDate"] = dateRange
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledDate", Value: 1}, {Key: "scheduledTimeStart", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode job list: %w", err)
	}
	return jobs, total, nil
}
