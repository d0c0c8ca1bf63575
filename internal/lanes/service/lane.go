package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	laneerrors "lanebook/internal/lanes/errors"
	"lanebook/internal/lanes/repository"
	"lanebook/internal/lanes/validator"
	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/model"
	"lanebook/pkg/sanitizer"
)

// LaneService manages the bookable lanes and their blocked intervals.
type LaneService interface {
	Create(ctx context.Context, lane *model.Lane) error
	GetByID(ctx context.Context, id string) (*model.Lane, error)
	GetAll(ctx context.Context, limit int, offset int64, activeOnly bool) ([]*model.Lane, int64, error)
	Update(ctx context.Context, id string, updates *model.LaneUpdate) error

	GetBlocks(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error)
	SetBlocks(ctx context.Context, laneID string, date string, blocks []*model.BlockedInterval) error
}

type laneService struct {
	repo      repository.LaneRepository
	validator *validator.LaneValidator
	cfg       *config.Config
}

func NewLaneService(
	repo repository.LaneRepository,
	validator *validator.LaneValidator,
	cfg *config.Config,
) LaneService {
	return &laneService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *laneService) Create(ctx context.Context, lane *model.Lane) error {
	lane.Name = sanitizer.NormalizeName(lane.Name)

	if err := s.validator.ValidateLane(lane); err != nil {
		s.cfg.Log.Warn("Lane validation failed", "name", lane.Name, "error", err)
		return apperrors.Validation("Lane validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, lane); err != nil {
		s.cfg.Log.Error("Failed to create lane", "name", lane.Name, "error", err)
		return mongotx.StoreError("Failed to create lane", err)
	}

	s.cfg.Log.Info("Lane created successfully",
		"id", lane.ID,
		"name", lane.Name,
		"type", lane.Type,
	)
	return nil
}

func (s *laneService) GetByID(ctx context.Context, id string) (*model.Lane, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lane ID cannot be empty")
	}

	lane, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, laneerrors.ErrLaneNotFound) {
			return nil, apperrors.NotFoundWithID("Lane", id)
		}
		if errors.Is(err, laneerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid lane ID format")
		}
		s.cfg.Log.Error("Failed to get lane by ID", "id", id, "error", err)
		return nil, mongotx.StoreError("Failed to retrieve lane", err)
	}

	return lane, nil
}

func (s *laneService) GetAll(ctx context.Context, limit int, offset int64, activeOnly bool) ([]*model.Lane, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var lanes []*model.Lane
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx, activeOnly)
		if err != nil {
			s.cfg.Log.Error("Failed to count lanes", "error", err)
			errCount = mongotx.StoreError("Failed to count lanes", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		lanes, err = s.repo.FindAll(sharedCtx, limit, offset, activeOnly)
		if err != nil {
			s.cfg.Log.Error("Failed to get all lanes",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = mongotx.StoreError("Failed to retrieve lanes", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return lanes, count, nil
}

func (s *laneService) Update(ctx context.Context, id string, updates *model.LaneUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Lane ID cannot be empty")
	}

	// Partial updates are checked on their own shape before any store
	// read; the merged lane is validated again below.
	if err := s.validator.ValidateLaneUpdate(updates); err != nil {
		s.cfg.Log.Warn("Lane update validation failed", "id", id, "error", err)
		return apperrors.Validation("Lane update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, laneerrors.ErrLaneNotFound) {
			return apperrors.NotFoundWithID("Lane", id)
		}
		if errors.Is(err, laneerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid lane ID format")
		}
		return mongotx.StoreError("Failed to check lane existence", err)
	}

	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}

	merged := s.mergeLaneUpdates(existing, updates)
	if err := s.validator.ValidateLane(merged); err != nil {
		s.cfg.Log.Warn("Lane validation failed", "id", id, "error", err)
		return apperrors.Validation("Lane validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, laneerrors.ErrLaneNotFound) {
			return apperrors.NotFoundWithID("Lane", id)
		}
		s.cfg.Log.Error("Failed to update lane", "id", id, "error", err)
		return mongotx.StoreError("Failed to update lane", err)
	}

	s.cfg.Log.Info("Lane updated successfully",
		"id", id,
		"name", merged.Name,
		"is_active", merged.IsActive,
	)
	return nil
}

func (s *laneService) mergeLaneUpdates(existing *model.Lane, updates *model.LaneUpdate) *model.Lane {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.SortOrder != nil {
		merged.SortOrder = *updates.SortOrder
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

func (s *laneService) GetBlocks(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error) {
	if laneID == "" {
		return nil, apperrors.InvalidInput("Lane ID cannot be empty")
	}
	if _, err := model.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	blocks, err := s.repo.FindBlocks(ctx, laneID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to get lane blocks",
			"lane_id", laneID,
			"date", date,
			"error", err,
		)
		return nil, mongotx.StoreError("Failed to retrieve lane blocks", err)
	}
	return blocks, nil
}

// SetBlocks replaces the block set for one lane and date. Blocks may
// overlap each other; the availability computation merges them.
func (s *laneService) SetBlocks(ctx context.Context, laneID string, date string, blocks []*model.BlockedInterval) error {
	if laneID == "" {
		return apperrors.InvalidInput("Lane ID cannot be empty")
	}
	if _, err := model.ParseDate(date); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	for _, b := range blocks {
		b.LaneID = laneID
		b.Date = date
		b.ID = ""
		b.Reason = sanitizer.NormalizeReason(b.Reason)
		if err := s.validator.ValidateBlock(b); err != nil {
			s.cfg.Log.Warn("Blocked interval validation failed",
				"lane_id", laneID,
				"date", date,
				"error", err,
			)
			return apperrors.Validation("Blocked interval validation failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindByID(sessCtx, laneID); err != nil {
			if errors.Is(err, laneerrors.ErrLaneNotFound) {
				return apperrors.NotFoundWithID("Lane", laneID)
			}
			if errors.Is(err, laneerrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid lane ID format")
			}
			return mongotx.StoreError("Failed to check lane existence", err)
		}
		if err := s.repo.ReplaceBlocks(sessCtx, laneID, date, blocks); err != nil {
			return mongotx.StoreError("Failed to replace lane blocks", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to set lane blocks",
			"lane_id", laneID,
			"date", date,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Lane blocks replaced successfully",
		"lane_id", laneID,
		"date", date,
		"block_count", len(blocks),
	)
	return nil
}
