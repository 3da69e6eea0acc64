package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sproutyapp/server/domain/repositories"
)

type RunLockRepository struct {
	collection *mongo.Collection
}

// NewRunLockRepository creates a new MongoDB run-lock repository
func NewRunLockRepository(db *mongo.Database) repositories.RunLockRepository {
	return &RunLockRepository{
		collection: db.Collection("locks"),
	}
}

// Acquire implements repositories.RunLockRepository.
//
// The check-and-update has to be a single atomic operation so that two
// instances racing for the same period cannot both win. A conditional
// FindOneAndUpdate with an upsert gives exactly that per-document
// guarantee: the filter only matches a lock that is missing or stale, and
// when a fresh lock exists the attempted upsert collides on _id and comes
// back as a duplicate-key error, which is the "someone else already ran"
// signal.
func (r *RunLockRepository) Acquire(ctx context.Context, jobName string, now time.Time, period time.Duration) (bool, error) {
	cutoff := now.Add(-period)
	filter := bson.M{
		"_id": jobName,
		"$or": bson.A{
			bson.M{"last_run_at": bson.M{"$exists": false}},
			bson.M{"last_run_at": bson.M{"$lt": cutoff}},
		},
	}
	update := bson.M{"$set": bson.M{"last_run_at": now}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err == nil {
		return true, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		// A fresh lock document exists: another instance ran this period.
		return false, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Raced with a concurrent stale-lock update; treat as lost.
		return false, nil
	}
	return false, fmt.Errorf("failed to acquire run lock %s: %w", jobName, err)
}
