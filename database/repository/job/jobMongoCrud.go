// File: database/repository/job/jobMongoCrud.go
package jobRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fieldops/models"
)

func (r *MongoJobRepo) Insert(ctx context.Context, job *models.Job) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, job); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

func (r *MongoJobRepo) Update(ctx context.Context, job *models.Job) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": job.ID, "businessId": job.BusinessID}
	res, err := r.coll.ReplaceOne(ctx, filter, job)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the job and its owned children (notes, photos, history).
func (r *MongoJobRepo) Delete(ctx context.Context, businessID, jobID string) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": jobID, "businessId": businessID})
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", jobID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	childFilter := bson.M{"jobId": jobID}
	for _, coll := range []*mongo.Collection{r.notesColl, r.photosColl, r.historyColl} {
		if _, err := coll.DeleteMany(ctx, childFilter); err != nil {
			return fmt.Errorf("failed to cascade-delete job children for %s: %w", jobID, err)
		}
	}
	return nil
}

func (r *MongoJobRepo) GetByID(ctx context.Context, businessID, jobID string) (*models.Job, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var job models.Job
	err := r.coll.FindOne(ctx, bson.M{"id": jobID, "businessId": businessID}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", jobID, err)
	}
	return &job, nil
}

func (r *MongoJobRepo) GetByConfirmationCode(ctx context.Context, businessID, code string) (*models.Job, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var job models.Job
	err := r.coll.FindOne(ctx, bson.M{"confirmationCode": code, "businessId": businessID}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job by code %s: %w", code, err)
	}
	return &job, nil
}

func (r *MongoJobRepo) CodeExists(ctx context.Context, businessID, code string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"confirmationCode": code, "businessId": businessID})
	if err != nil {
		return false, fmt.Errorf("failed to check confirmation code: %w", err)
	}
	return count > 0, nil
}

func (r *MongoJobRepo) UpdateEscalation(ctx context.Context, businessID, jobID string, level int, at time.Time) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": jobID, "businessId": businessID},
		bson.M{"$set": bson.M{
			"escalationLevel":  level,
			"lastEscalationAt": at,
			"updatedAt":        at,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update escalation for job %s: %w", jobID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
