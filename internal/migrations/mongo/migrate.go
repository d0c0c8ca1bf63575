package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lanebook/internal/migrations/mongo/validators"
)

var (
	LanesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "is_active", Value: 1},
			{Key: "sort_order", Value: 1},
			{Key: "name", Value: 1},
		}},
	}

	LaneBlocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "lane_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "start", Value: 1},
		}},
	}

	SeasonalPeriodsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_date", Value: -1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		// One live booking per slot. Cancelled bookings are kept for
		// audit and must not collide, hence the partial filter.
		{
			Keys: bson.D{
				{Key: "lane_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_live_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "booked"}),
		},
		{Keys: bson.D{
			{Key: "lane_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "requester_id", Value: 1},
			{Key: "date", Value: -1},
			{Key: "start", Value: -1},
		}},
	}

	// Mongo's TTL monitor reaps abandoned slot locks; the acquire path
	// additionally handles expired-but-unreaped documents itself.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Lanebook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Lanes": {
			Indexes:   LanesIndexes,
			Validator: validators.LaneValidator,
		},
		"Lane_blocks": {
			Indexes:   LaneBlocksIndexes,
			Validator: validators.LaneBlockValidator,
		},
		"Default_week": {
			Validator: validators.DefaultWeekValidator,
		},
		"Seasonal_periods": {
			Indexes:   SeasonalPeriodsIndexes,
			Validator: validators.SeasonalPeriodValidator,
		},
		"Date_overrides": {
			Validator: validators.DateOverrideValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Booking_locks": {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}

	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
