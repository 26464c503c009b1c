// File: database/repository/job/children.go
package jobRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fieldops/models"
)

func (r *MongoJobRepo) AddHistory(ctx context.Context, entry *models.JobStatusHistory) error {
	return r.appendChild(ctx, r.historyColl, entry, "status history")
}

func (r *MongoJobRepo) GetHistory(ctx context.Context, jobID string) ([]models.JobStatusHistory, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.historyColl.Find(ctx, bson.M{"jobId": jobID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query status history for %s: %w", jobID, err)
	}
	var entries []models.JobStatusHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode status history for %s: %w", jobID, err)
	}
	return entries, nil
}

func (r *MongoJobRepo) AddNote(ctx context.Context, note *models.JobNote) error {
	return r.appendChild(ctx, r.notesColl, note, "note")
}

func (r *MongoJobRepo) GetNotes(ctx context.Context, jobID string) ([]models.JobNote, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.notesColl.Find(ctx, bson.M{"jobId": jobID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query notes for %s: %w", jobID, err)
	}
	var notes []models.JobNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes for %s: %w", jobID, err)
	}
	return notes, nil
}

func (r *MongoJobRepo) AddPhoto(ctx context.Context, photo *models.JobPhoto) error {
	return r.appendChild(ctx, r.photosColl, photo, "photo")
}

func (r *MongoJobRepo) GetPhotos(ctx context.Context, jobID string) ([]models.JobPhoto, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.photosColl.Find(ctx, bson.M{"jobId": jobID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query photos for %s: %w", jobID, err)
	}
	var photos []models.JobPhoto
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos for %s: %w", jobID, err)
	}
	return photos, nil
}

func (r *MongoJobRepo) appendChild(ctx context.Context, coll *mongo.Collection, doc interface{}, kind string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append job %s: %w", kind, err)
	}
	return nil
}
