package service

import (
	"context"
	"io"
	"testing"
	"time"

	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

const (
	testLaneID = "652f8aab9d2f4b1a3c9e77aa"
	testDate   = "2026-09-01"
)

type mockHoursService struct {
	resolveFunc func(ctx context.Context, date string) (model.DayHours, error)
}

func (m *mockHoursService) Resolve(ctx context.Context, date string) (model.DayHours, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, date)
	}
	return model.DayHours{Open: 540, Close: 1080}, nil
}

func (m *mockHoursService) GetDefaultWeek(ctx context.Context) (*model.DefaultWeek, error) {
	return nil, nil
}
func (m *mockHoursService) ReplaceDefaultWeek(ctx context.Context, week *model.DefaultWeek) error {
	return nil
}
func (m *mockHoursService) ListSeasonalPeriods(ctx context.Context) ([]*model.SeasonalPeriod, error) {
	return nil, nil
}
func (m *mockHoursService) CreateSeasonalPeriod(ctx context.Context, period *model.SeasonalPeriod) error {
	return nil
}
func (m *mockHoursService) DeleteSeasonalPeriod(ctx context.Context, id string) error { return nil }
func (m *mockHoursService) GetDateOverride(ctx context.Context, date string) (*model.DateOverride, error) {
	return nil, nil
}
func (m *mockHoursService) UpsertDateOverride(ctx context.Context, override *model.DateOverride) error {
	return nil
}
func (m *mockHoursService) DeleteDateOverride(ctx context.Context, date string) error { return nil }

type mockLaneRepo struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Lane, error)
	findBlocksFunc func(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error)
	findBlocksHits int
}

func (m *mockLaneRepo) Create(ctx context.Context, lane *model.Lane) error { return nil }
func (m *mockLaneRepo) FindByID(ctx context.Context, id string) (*model.Lane, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Lane{ID: testLaneID, Name: "Lane 1", Type: model.LaneTypeIndoor, IsActive: true}, nil
}
func (m *mockLaneRepo) FindAll(ctx context.Context, limit int, offset int64, activeOnly bool) ([]*model.Lane, error) {
	return nil, nil
}
func (m *mockLaneRepo) Count(ctx context.Context, activeOnly bool) (int64, error) { return 0, nil }
func (m *mockLaneRepo) Update(ctx context.Context, id string, lane *model.Lane) error {
	return nil
}
func (m *mockLaneRepo) FindBlocks(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error) {
	m.findBlocksHits++
	if m.findBlocksFunc != nil {
		return m.findBlocksFunc(ctx, laneID, date)
	}
	return nil, nil
}
func (m *mockLaneRepo) ReplaceBlocks(ctx context.Context, laneID string, date string, blocks []*model.BlockedInterval) error {
	return nil
}
func (m *mockLaneRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockBookingRepo struct {
	findActiveFunc func(ctx context.Context, laneID string, date string) ([]*model.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error { return nil }
func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindActive(ctx context.Context, laneID string, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, laneID, date)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) CountByRequester(ctx context.Context, requesterID string) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return nil
}
func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Output:  io.Discard,
			Service: "test",
		}),
		SlotStepMin:          30,
		AllowedDurationsMin:  []int{30, 60, 90, 120},
		AvailabilityCacheTTL: 5 * time.Second,
	}
}

func TestFreeWindows_ComposesBlocksAndBookings(t *testing.T) {
	lanes := &mockLaneRepo{
		findBlocksFunc: func(ctx context.Context, laneID string, date string) ([]*model.BlockedInterval, error) {
			return []*model.BlockedInterval{
				{LaneID: laneID, Date: date, Start: 600, End: 660}, // 10:00-11:00
			}, nil
		},
	}
	bookings := &mockBookingRepo{
		findActiveFunc: func(ctx context.Context, laneID string, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{LaneID: laneID, Date: date, Start: 720, End: 780, Status: model.StatusBooked}, // 12:00-13:00
			}, nil
		},
	}
	svc := NewAvailabilityService(&mockHoursService{}, lanes, bookings, testConfig())

	result, err := svc.FreeWindows(context.Background(), testLaneID, testDate)
	if err != nil {
		t.Fatalf("FreeWindows(): %v", err)
	}

	want := []model.TimeRange{
		{Start: 540, End: 600},  // 09:00-10:00
		{Start: 660, End: 720},  // 11:00-12:00
		{Start: 780, End: 1080}, // 13:00-18:00
	}
	if len(result.Windows) != len(want) {
		t.Fatalf("windows = %v, want %v", result.Windows, want)
	}
	for i, w := range want {
		if result.Windows[i] != w {
			t.Errorf("window %d = %v, want %v", i, result.Windows[i], w)
		}
	}
	if result.FetchedAt.IsZero() {
		t.Error("FetchedAt must label the snapshot")
	}
}

func TestFreeWindows_ClosedDayShortCircuits(t *testing.T) {
	schedule := &mockHoursService{
		resolveFunc: func(ctx context.Context, date string) (model.DayHours, error) {
			return model.DayHours{IsClosed: true}, nil
		},
	}
	lanes := &mockLaneRepo{}
	bookings := &mockBookingRepo{
		findActiveFunc: func(ctx context.Context, laneID string, date string) ([]*model.Booking, error) {
			t.Fatal("bookings must not be read on a closed day")
			return nil, nil
		},
	}
	svc := NewAvailabilityService(schedule, lanes, bookings, testConfig())

	result, err := svc.FreeWindows(context.Background(), testLaneID, testDate)
	if err != nil {
		t.Fatalf("FreeWindows(): %v", err)
	}
	if !result.IsClosed || len(result.Windows) != 0 {
		t.Errorf("expected closed empty result, got %+v", result)
	}
	if lanes.findBlocksHits != 0 {
		t.Error("blocks must not be read on a closed day")
	}
}

func TestFreeWindows_InactiveLane(t *testing.T) {
	lanes := &mockLaneRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Lane, error) {
			return &model.Lane{ID: id, Name: "Lane 1", Type: model.LaneTypeIndoor, IsActive: false}, nil
		},
	}
	svc := NewAvailabilityService(&mockHoursService{}, lanes, &mockBookingRepo{}, testConfig())

	result, err := svc.FreeWindows(context.Background(), testLaneID, testDate)
	if err != nil {
		t.Fatalf("FreeWindows(): %v", err)
	}
	if !result.IsClosed || len(result.Windows) != 0 {
		t.Errorf("inactive lane must yield no availability, got %+v", result)
	}
}

func TestAvailableStarts_RespectsDurationSet(t *testing.T) {
	svc := NewAvailabilityService(&mockHoursService{}, &mockLaneRepo{}, &mockBookingRepo{}, testConfig())

	for _, d := range []int{0, -30, 45, 75, 480} {
		_, err := svc.AvailableStarts(context.Background(), testLaneID, testDate, d)
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("duration %d: expected invalid input, got %v", d, err)
		}
	}
}

func TestAvailableStarts_EnumeratesGrid(t *testing.T) {
	// 09:00-18:00, booking 12:00-13:00: 60-minute slots every 30
	// minutes skip 11:30, 12:00 and 12:30.
	bookings := &mockBookingRepo{
		findActiveFunc: func(ctx context.Context, laneID string, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{LaneID: laneID, Date: date, Start: 720, End: 780, Status: model.StatusBooked},
			}, nil
		},
	}
	svc := NewAvailabilityService(&mockHoursService{}, &mockLaneRepo{}, bookings, testConfig())

	result, err := svc.AvailableStarts(context.Background(), testLaneID, testDate, 60)
	if err != nil {
		t.Fatalf("AvailableStarts(): %v", err)
	}

	for _, excluded := range []model.TimeOfDay{690, 720, 750} {
		for _, s := range result.Starts {
			if s == excluded {
				t.Errorf("start %s must be excluded by the 12:00-13:00 booking", s)
			}
		}
	}
	found := map[model.TimeOfDay]bool{}
	for _, s := range result.Starts {
		found[s] = true
	}
	for _, included := range []model.TimeOfDay{540, 660, 780, 1020} {
		if !found[included] {
			t.Errorf("start %s missing from enumeration", included)
		}
	}
}

func TestSnapshot_CacheServesWithinTTL(t *testing.T) {
	lanes := &mockLaneRepo{}
	svc := NewAvailabilityService(&mockHoursService{}, lanes, &mockBookingRepo{}, testConfig())

	for i := 0; i < 3; i++ {
		if _, err := svc.FreeWindows(context.Background(), testLaneID, testDate); err != nil {
			t.Fatalf("FreeWindows() call %d: %v", i, err)
		}
	}
	if lanes.findBlocksHits != 1 {
		t.Errorf("expected one store read within TTL, got %d", lanes.findBlocksHits)
	}
}

func TestSnapshot_CacheExpires(t *testing.T) {
	cfg := testConfig()
	cfg.AvailabilityCacheTTL = 1 * time.Nanosecond

	lanes := &mockLaneRepo{}
	svc := NewAvailabilityService(&mockHoursService{}, lanes, &mockBookingRepo{}, cfg)

	for i := 0; i < 2; i++ {
		if _, err := svc.FreeWindows(context.Background(), testLaneID, testDate); err != nil {
			t.Fatalf("FreeWindows() call %d: %v", i, err)
		}
		time.Sleep(time.Millisecond)
	}
	if lanes.findBlocksHits != 2 {
		t.Errorf("expected a fresh read after TTL, got %d hits", lanes.findBlocksHits)
	}
}
