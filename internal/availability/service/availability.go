package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingsrepo "lanebook/internal/bookings/repository"
	laneerrors "lanebook/internal/lanes/errors"
	lanesrepo "lanebook/internal/lanes/repository"
	scheduleservice "lanebook/internal/schedule/service"
	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/interval"
	"lanebook/pkg/model"
)

// DayAvailability is the answer to "when is this lane free on this
// date". FetchedAt labels the snapshot the answer was computed from;
// a commit may invalidate it at any moment, which is why the committer
// never consults this path.
type DayAvailability struct {
	LaneID    string            `json:"lane_id"`
	Date      string            `json:"date"`
	IsClosed  bool              `json:"is_closed"`
	Open      *model.TimeOfDay  `json:"open,omitempty"`
	Close     *model.TimeOfDay  `json:"close,omitempty"`
	Windows   []model.TimeRange `json:"windows"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// StartsAvailability lists the grid-aligned start times at which a
// booking of the requested duration would fit.
type StartsAvailability struct {
	LaneID      string            `json:"lane_id"`
	Date        string            `json:"date"`
	DurationMin int               `json:"duration_min"`
	StepMin     int               `json:"step_min"`
	Starts      []model.TimeOfDay `json:"starts"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// AvailabilityService is the read path. Results are advisory: they can
// go stale the moment another booking commits.
type AvailabilityService interface {
	FreeWindows(ctx context.Context, laneID string, date string) (*DayAvailability, error)
	AvailableStarts(ctx context.Context, laneID string, date string, durationMin int) (*StartsAvailability, error)
}

// daySnapshot is one cached read of everything availability depends on
// for a lane and date.
type daySnapshot struct {
	hours     model.DayHours
	active    bool
	busy      []model.TimeRange
	fetchedAt time.Time
}

type availabilityService struct {
	schedule scheduleservice.HoursService
	lanes    lanesrepo.LaneRepository
	bookings bookingsrepo.BookingRepository
	cfg      *config.Config

	mu    sync.Mutex
	cache map[string]daySnapshot
}

func NewAvailabilityService(
	schedule scheduleservice.HoursService,
	lanes lanesrepo.LaneRepository,
	bookings bookingsrepo.BookingRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		schedule: schedule,
		lanes:    lanes,
		bookings: bookings,
		cfg:      cfg,
		cache:    make(map[string]daySnapshot),
	}
}

func (s *availabilityService) FreeWindows(ctx context.Context, laneID string, date string) (*DayAvailability, error) {
	snap, err := s.snapshot(ctx, laneID, date)
	if err != nil {
		return nil, err
	}

	result := &DayAvailability{
		LaneID:    laneID,
		Date:      date,
		Windows:   []model.TimeRange{},
		FetchedAt: snap.fetchedAt,
	}

	if snap.hours.IsClosed || !snap.active {
		result.IsClosed = true
		return result, nil
	}

	open, closeAt := snap.hours.Open, snap.hours.Close
	result.Open = &open
	result.Close = &closeAt
	if windows := interval.FreeWindows(open, closeAt, snap.busy); windows != nil {
		result.Windows = windows
	}
	return result, nil
}

func (s *availabilityService) AvailableStarts(ctx context.Context, laneID string, date string, durationMin int) (*StartsAvailability, error) {
	if durationMin <= 0 {
		return nil, apperrors.InvalidInput("Duration must be positive")
	}
	if !s.cfg.IsAllowedDuration(durationMin) {
		return nil, apperrors.InvalidInput("Duration is not in the allowed set")
	}

	snap, err := s.snapshot(ctx, laneID, date)
	if err != nil {
		return nil, err
	}

	result := &StartsAvailability{
		LaneID:      laneID,
		Date:        date,
		DurationMin: durationMin,
		StepMin:     s.cfg.SlotStepMin,
		Starts:      []model.TimeOfDay{},
		FetchedAt:   snap.fetchedAt,
	}

	if snap.hours.IsClosed || !snap.active {
		return result, nil
	}

	windows := interval.FreeWindows(snap.hours.Open, snap.hours.Close, snap.busy)
	if starts := interval.EnumerateStarts(windows, durationMin, s.cfg.SlotStepMin); starts != nil {
		result.Starts = starts
	}
	return result, nil
}

// snapshot assembles hours, lane state, blocks and active bookings for
// one lane and date, serving a cached copy while it is fresh.
func (s *availabilityService) snapshot(ctx context.Context, laneID string, date string) (daySnapshot, error) {
	if laneID == "" {
		return daySnapshot{}, apperrors.InvalidInput("Lane ID cannot be empty")
	}
	if _, err := model.ParseDate(date); err != nil {
		return daySnapshot{}, apperrors.InvalidInput(err.Error())
	}

	key := laneID + "|" + date

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < s.cfg.AvailabilityCacheTTL {
		return cached, nil
	}

	hours, err := s.schedule.Resolve(ctx, date)
	if err != nil {
		return daySnapshot{}, err
	}

	lane, err := s.lanes.FindByID(ctx, laneID)
	if err != nil {
		if errors.Is(err, laneerrors.ErrLaneNotFound) {
			return daySnapshot{}, apperrors.NotFoundWithID("Lane", laneID)
		}
		if errors.Is(err, laneerrors.ErrInvalidID) {
			return daySnapshot{}, apperrors.InvalidInput("Invalid lane ID format")
		}
		s.cfg.Log.Error("Failed to read lane for availability",
			"lane_id", laneID,
			"error", err,
		)
		return daySnapshot{}, mongotx.StoreError("Failed to compute availability", err)
	}

	snap := daySnapshot{
		hours:     hours,
		active:    lane.IsActive,
		fetchedAt: time.Now().UTC(),
	}

	// Closed or inactive: occupancy is irrelevant, skip the reads.
	if !hours.IsClosed && lane.IsActive {
		blocks, err := s.lanes.FindBlocks(ctx, laneID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to read lane blocks for availability",
				"lane_id", laneID,
				"date", date,
				"error", err,
			)
			return daySnapshot{}, mongotx.StoreError("Failed to compute availability", err)
		}

		bookings, err := s.bookings.FindActive(ctx, laneID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to read bookings for availability",
				"lane_id", laneID,
				"date", date,
				"error", err,
			)
			return daySnapshot{}, mongotx.StoreError("Failed to compute availability", err)
		}

		busy := make([]model.TimeRange, 0, len(blocks)+len(bookings))
		for _, b := range blocks {
			busy = append(busy, b.Range())
		}
		for _, b := range bookings {
			busy = append(busy, b.Range())
		}
		snap.busy = busy
	}

	s.mu.Lock()
	s.cache[key] = snap
	s.mu.Unlock()

	return snap, nil
}
