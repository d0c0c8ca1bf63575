package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "lanebook/internal/bookings/errors"
	"lanebook/internal/bookings/repository"
	"lanebook/internal/bookings/validator"
	laneerrors "lanebook/internal/lanes/errors"
	lanesrepo "lanebook/internal/lanes/repository"
	scheduleservice "lanebook/internal/schedule/service"
	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/interval"
	"lanebook/pkg/model"
	"lanebook/pkg/sanitizer"
)

// BookingService is the committer: the single write path for bookings.
// Every attempt ends Committed or Rejected; rejection is an expected
// outcome carried as a CONFLICT error, never a fault.
type BookingService interface {
	Attempt(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	QueryByDate(ctx context.Context, date string, laneID string) ([]*model.Booking, error)
	ListByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.BookingLockRepository
	lanes     lanesrepo.LaneRepository
	schedule  scheduleservice.HoursService
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	lanes lanesrepo.LaneRepository,
	schedule scheduleservice.HoursService,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		lanes:     lanes,
		schedule:  schedule,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Attempt runs the full commit protocol: validate the request, acquire
// the slot's advisory lock, then inside a transaction re-read the
// world (lane, hours, blocks, bookings) and re-check the exact range
// before inserting. The fresh re-read is what makes a stale
// availability answer harmless.
func (s *bookingService) Attempt(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	req.RequesterID = sanitizer.TrimAndNormalize(req.RequesterID)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed",
			"lane_id", req.LaneID,
			"date", req.Date,
			"error", err,
		)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	start, err := model.ParseTimeOfDay(req.Start)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if req.DurationMin <= 0 {
		return nil, apperrors.InvalidInput("Duration must be positive")
	}
	if req.DurationMin%s.cfg.SlotStepMin != 0 {
		return nil, apperrors.InvalidInput("Duration must be a multiple of the slot step")
	}
	if !s.cfg.IsAllowedDuration(req.DurationMin) {
		return nil, apperrors.InvalidInput("Duration is not in the allowed set")
	}
	end := start + model.TimeOfDay(req.DurationMin)
	if !end.Valid() && int(end) != model.MinutesPerDay {
		return nil, apperrors.InvalidInput("Booking must end within the same day")
	}

	lockID := model.SlotLockID(req.LaneID, req.Date, start)
	if _, err := s.locks.Acquire(ctx, lockID, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			s.cfg.Log.Info("Booking attempt lost the slot lock",
				"lane_id", req.LaneID,
				"date", req.Date,
				"start", start.String(),
			)
			return nil, apperrors.Conflict("Another booking attempt for this slot is in progress")
		}
		s.cfg.Log.Error("Failed to acquire slot lock", "lock_id", lockID, "error", err)
		return nil, mongotx.StoreError("Failed to process booking attempt", err)
	}
	defer func() {
		if err := s.locks.Release(ctx, lockID); err != nil {
			// The TTL will reap it; log and move on.
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}()

	booking := &model.Booking{
		LaneID:      req.LaneID,
		Date:        req.Date,
		Start:       start,
		End:         end,
		Status:      model.StatusBooked,
		RequesterID: req.RequesterID,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		lane, err := s.lanes.FindByID(sessCtx, req.LaneID)
		if err != nil {
			if errors.Is(err, laneerrors.ErrLaneNotFound) {
				return apperrors.NotFoundWithID("Lane", req.LaneID)
			}
			if errors.Is(err, laneerrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid lane ID format")
			}
			return mongotx.StoreError("Failed to read lane", err)
		}
		if !lane.IsActive {
			return apperrors.Conflict("Lane is not active")
		}

		hours, err := s.schedule.Resolve(sessCtx, req.Date)
		if err != nil {
			return err
		}
		if hours.IsClosed {
			return apperrors.Conflict("The facility is closed on the requested date")
		}

		blocks, err := s.lanes.FindBlocks(sessCtx, req.LaneID, req.Date)
		if err != nil {
			return mongotx.StoreError("Failed to read lane blocks", err)
		}
		active, err := s.repo.FindActive(sessCtx, req.LaneID, req.Date)
		if err != nil {
			return mongotx.StoreError("Failed to read existing bookings", err)
		}

		busy := make([]model.TimeRange, 0, len(blocks)+len(active))
		for _, b := range blocks {
			busy = append(busy, b.Range())
		}
		for _, b := range active {
			busy = append(busy, b.Range())
		}

		if !interval.IsRangeFree(hours.Open, hours.Close, busy, start, end) {
			return apperrors.Conflict("The requested slot is no longer free")
		}

		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return nil, err
		}
		if !apperrors.IsAppError(err) {
			s.cfg.Log.Error("Booking attempt failed",
				"lane_id", req.LaneID,
				"date", req.Date,
				"start", start.String(),
				"error", err,
			)
			return nil, mongotx.StoreError("Failed to commit booking", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Booking committed successfully",
		"id", booking.ID,
		"lane_id", booking.LaneID,
		"date", booking.Date,
		"start", booking.Start.String(),
		"end", booking.End.String(),
		"requester_id", booking.RequesterID,
	)
	s.publishEvent(ctx, EventBookingCommitted, booking)

	return booking, nil
}

// Cancel is idempotent: cancelling an already-cancelled booking
// succeeds without a second transition or a second event.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to read booking for cancellation", "id", id, "error", err)
		return nil, mongotx.StoreError("Failed to cancel booking", err)
	}

	if booking.Status == model.StatusCancelled {
		s.cfg.Log.Debug("Booking already cancelled", "id", id)
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, mongotx.StoreError("Failed to cancel booking", err)
	}
	booking.Status = model.StatusCancelled

	s.cfg.Log.Info("Booking cancelled successfully",
		"id", id,
		"lane_id", booking.LaneID,
		"date", booking.Date,
		"start", booking.Start.String(),
	)
	s.publishEvent(ctx, EventBookingCancelled, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID", "id", id, "error", err)
		return nil, mongotx.StoreError("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) QueryByDate(ctx context.Context, date string, laneID string) ([]*model.Booking, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	bookings, err := s.repo.FindActive(ctx, laneID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to query bookings",
			"date", date,
			"lane_id", laneID,
			"error", err,
		)
		return nil, mongotx.StoreError("Failed to query bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	requesterID = sanitizer.TrimAndNormalize(requesterID)
	if requesterID == "" {
		return nil, 0, apperrors.InvalidInput("Requester ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByRequester(ctx, requesterID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by requester", "requester_id", requesterID, "error", err)
		return nil, 0, mongotx.StoreError("Failed to retrieve bookings", err)
	}
	count, err := s.repo.CountByRequester(ctx, requesterID)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings by requester", "requester_id", requesterID, "error", err)
		return nil, 0, mongotx.StoreError("Failed to count bookings", err)
	}
	return bookings, count, nil
}
