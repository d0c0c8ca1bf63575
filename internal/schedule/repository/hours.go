package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	scheduleerrors "lanebook/internal/schedule/errors"
	"lanebook/pkg/config"
	"lanebook/pkg/model"
)

const (
	DefaultWeekCollection     = "Default_week"
	SeasonalPeriodsCollection = "Seasonal_periods"
	DateOverridesCollection   = "Date_overrides"

	// The default week is a singleton document.
	defaultWeekID = "default"
)

// HoursRepository reads and writes the three tiers of opening-hours
// configuration.
type HoursRepository interface {
	GetDefaultWeek(ctx context.Context) (*model.DefaultWeek, error)
	ReplaceDefaultWeek(ctx context.Context, week *model.DefaultWeek) error

	ListSeasonalPeriods(ctx context.Context) ([]*model.SeasonalPeriod, error)
	CreateSeasonalPeriod(ctx context.Context, period *model.SeasonalPeriod) error
	DeleteSeasonalPeriod(ctx context.Context, id string) error

	GetDateOverride(ctx context.Context, date string) (*model.DateOverride, error)
	UpsertDateOverride(ctx context.Context, override *model.DateOverride) error
	DeleteDateOverride(ctx context.Context, date string) error
}

type mongoHoursRepository struct {
	cfg       *config.Config
	db        *mongo.Database
	week      *mongo.Collection
	periods   *mongo.Collection
	overrides *mongo.Collection
}

func NewMongoHoursRepository(cfg *config.Config) HoursRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoursRepository{
		cfg:       cfg,
		db:        db,
		week:      db.Collection(DefaultWeekCollection),
		periods:   db.Collection(SeasonalPeriodsCollection),
		overrides: db.Collection(DateOverridesCollection),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoHoursRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHoursRepository) GetDefaultWeek(ctx context.Context) (*model.DefaultWeek, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var week model.DefaultWeek
	err := r.week.FindOne(ctx, bson.M{"_id": defaultWeekID}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleerrors.ErrNoDefaultWeek
		}
		return nil, fmt.Errorf("failed to read default week: %w", err)
	}

	return &week, nil
}

func (r *mongoHoursRepository) ReplaceDefaultWeek(ctx context.Context, week *model.DefaultWeek) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	week.ID = defaultWeekID
	week.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.week.ReplaceOne(ctx, bson.M{"_id": defaultWeekID}, week, opts); err != nil {
		return fmt.Errorf("failed to replace default week: %w", err)
	}
	return nil
}

func (r *mongoHoursRepository) ListSeasonalPeriods(ctx context.Context) ([]*model.SeasonalPeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.periods.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seasonal periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []*model.SeasonalPeriod
	if err = cursor.All(ctx, &periods); err != nil {
		return nil, fmt.Errorf("failed to decode seasonal periods: %w", err)
	}

	return periods, nil
}

func (r *mongoHoursRepository) CreateSeasonalPeriod(ctx context.Context, period *model.SeasonalPeriod) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	period.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.periods.InsertOne(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to create seasonal period: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		period.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHoursRepository) DeleteSeasonalPeriod(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrInvalidID, id)
	}

	result, err := r.periods.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete seasonal period: %w", err)
	}
	if result.DeletedCount == 0 {
		return scheduleerrors.ErrPeriodNotFound
	}
	return nil
}

func (r *mongoHoursRepository) GetDateOverride(ctx context.Context, date string) (*model.DateOverride, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var override model.DateOverride
	err := r.overrides.FindOne(ctx, bson.M{"_id": date}).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleerrors.ErrOverrideNotFound
		}
		return nil, fmt.Errorf("failed to read date override: %w", err)
	}

	return &override, nil
}

func (r *mongoHoursRepository) UpsertDateOverride(ctx context.Context, override *model.DateOverride) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.overrides.ReplaceOne(ctx, bson.M{"_id": override.Date}, override, opts); err != nil {
		return fmt.Errorf("failed to upsert date override: %w", err)
	}
	return nil
}

func (r *mongoHoursRepository) DeleteDateOverride(ctx context.Context, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.overrides.DeleteOne(ctx, bson.M{"_id": date})
	if err != nil {
		return fmt.Errorf("failed to delete date override: %w", err)
	}
	if result.DeletedCount == 0 {
		return scheduleerrors.ErrOverrideNotFound
	}
	return nil
}
