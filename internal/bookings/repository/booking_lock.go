package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "lanebook/internal/bookings/errors"
	"lanebook/pkg/config"
	"lanebook/pkg/model"
)

const LocksCollection = "Booking_locks"

// BookingLockRepository provides advisory slot locks. Inserting a
// document with a unique _id is the store's compare-and-swap: exactly
// one concurrent attempt per slot can succeed.
type BookingLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LocksCollection),
	}
}

// Acquire inserts the lock document. When the insert collides with an
// expired lock left behind by a crashed attempt, the stale document is
// removed and the insert retried once; a live lock yields ErrLockHeld.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now().UTC()
		lock := &model.BookingLock{
			ID:        lockID,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		}

		_, err := r.collection.InsertOne(ctx, lock)
		if err == nil {
			return lock, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
		}

		var existing model.BookingLock
		findErr := r.collection.FindOne(ctx, bson.M{"_id": lockID}).Decode(&existing)
		if findErr != nil {
			if errors.Is(findErr, mongo.ErrNoDocuments) {
				// Holder released between our insert and read; retry.
				continue
			}
			return nil, fmt.Errorf("failed to inspect held slot lock: %w", findErr)
		}

		if !existing.Expired(now) {
			return nil, bookingerrors.ErrLockHeld
		}

		// Stale lock: remove only the exact expired document so a
		// concurrent fresh lock is never clobbered.
		if _, delErr := r.collection.DeleteOne(ctx, bson.M{
			"_id":        lockID,
			"expires_at": existing.ExpiresAt,
		}); delErr != nil {
			return nil, fmt.Errorf("failed to clear expired slot lock: %w", delErr)
		}
	}

	return nil, bookingerrors.ErrLockHeld
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
