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

	laneerrors "lanebook/internal/lanes/errors"
	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	"lanebook/pkg/model"
)

const (
	LanesCollection  = "Lanes"
	BlocksCollection = "Lane_blocks"
)

// LaneRepository stores lanes and their administrator-imposed blocked
// intervals.
type LaneRepository interface {
	Create(ctx context.Context, lane *model.Lane) error
	FindByID(ctx context.Context, id string) (*model.Lane, error)
	FindAll(ctx context.Context, limit int, offset int64, activeOnly bool) ([]*model.Lane, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, lane *model.Lane) error

	FindBlocks(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error)
	ReplaceBlocks(ctx context.Context, laneID string, date string, blocks []*model.BlockedInterval) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoLaneRepository struct {
	cfg       *config.Config
	db        *mongo.Database
	lanes     *mongo.Collection
	blocks    *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoLaneRepository(cfg *config.Config) LaneRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLaneRepository{
		cfg:       cfg,
		db:        db,
		lanes:     db.Collection(LanesCollection),
		blocks:    db.Collection(BlocksCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoLaneRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLaneRepository) Create(ctx context.Context, lane *model.Lane) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lane.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.lanes.InsertOne(ctx, lane)
	if err != nil {
		return fmt.Errorf("failed to create lane: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lane.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLaneRepository) FindByID(ctx context.Context, id string) (*model.Lane, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", laneerrors.ErrInvalidID, id)
	}

	var lane model.Lane
	err = r.lanes.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lane)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", laneerrors.ErrLaneNotFound, id)
		}
		return nil, fmt.Errorf("failed to find lane: %w", err)
	}

	return &lane, nil
}

func (r *mongoLaneRepository) FindAll(ctx context.Context, limit int, offset int64, activeOnly bool) ([]*model.Lane, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.lanes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query lanes: %w", err)
	}
	defer cursor.Close(ctx)

	var lanes []*model.Lane
	if err = cursor.All(ctx, &lanes); err != nil {
		return nil, fmt.Errorf("failed to decode lanes: %w", err)
	}
	return lanes, nil
}

func (r *mongoLaneRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	count, err := r.lanes.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count lanes: %w", err)
	}
	return count, nil
}

func (r *mongoLaneRepository) Update(ctx context.Context, id string, lane *model.Lane) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", laneerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":       lane.Name,
			"type":       lane.Type,
			"is_active":  lane.IsActive,
			"sort_order": lane.SortOrder,
		},
	}

	result, err := r.lanes.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update lane: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", laneerrors.ErrLaneNotFound, id)
	}
	return nil
}

func (r *mongoLaneRepository) FindBlocks(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.blocks.Find(ctx, bson.M{"lane_id": laneID, "date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query lane blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.BlockedInterval
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode lane blocks: %w", err)
	}
	return blocks, nil
}

// ReplaceBlocks swaps the full block set for one lane and date. Callers
// run it inside a transaction so readers never observe the
// between-delete-and-insert state.
func (r *mongoLaneRepository) ReplaceBlocks(ctx context.Context, laneID string, date string, blocks []*model.BlockedInterval) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.blocks.DeleteMany(ctx, bson.M{"lane_id": laneID, "date": date}); err != nil {
		return fmt.Errorf("failed to clear lane blocks: %w", err)
	}

	if len(blocks) == 0 {
		return nil
	}

	docs := make([]any, 0, len(blocks))
	for _, b := range blocks {
		docs = append(docs, b)
	}
	result, err := r.blocks.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert lane blocks: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(blocks) {
			blocks[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoLaneRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
