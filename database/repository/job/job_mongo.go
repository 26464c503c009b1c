package jobRepo

import (
	"context"
	"errors"
	"log"
	"time"

	"fieldops/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateSlot is returned when an insert or update trips the unique
// slot index: another non-cancelled job already claims the same
// (businessId, scheduledDate, scheduledTimeStart, technicianId).
var ErrDuplicateSlot = errors.New("slot already claimed by another job")

// ErrNotFound is returned when no job matches the lookup.
var ErrNotFound = errors.New("job not found")

// MongoJobRepo implements JobRepository using MongoDB.
type MongoJobRepo struct {
	coll        *mongo.Collection
	historyColl *mongo.Collection
	notesColl   *mongo.Collection
	photosColl  *mongo.Collection
}

// NewMongoJobRepo creates a new JobRepository backed by MongoDB.
func NewMongoJobRepo() JobRepository {
	db := database.DB()
	repo := &MongoJobRepo{
		coll:        db.Collection("jobs"),
		historyColl: db.Collection("job_status_history"),
		notesColl:   db.Collection("job_notes"),
		photosColl:  db.Collection("job_photos"),
	}
	// The double-booking guarantee lives in the unique slot index; refusing
	// to start without it is the only safe option.
	if err := repo.EnsureIndexes(); err != nil {
		log.Fatalf("failed to create job indexes: %v", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
