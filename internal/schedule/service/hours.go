package service

import (
	"context"
	"errors"

	scheduleerrors "lanebook/internal/schedule/errors"
	"lanebook/internal/schedule/repository"
	"lanebook/internal/schedule/validator"
	"lanebook/pkg/config"
	mongotx "lanebook/pkg/db/mongo"
	apperrors "lanebook/pkg/errors"
	"lanebook/pkg/model"
	"lanebook/pkg/sanitizer"
)

// HoursService resolves the facility's opening hours for any calendar
// date and manages the three configuration tiers behind the resolution.
type HoursService interface {
	Resolve(ctx context.Context, date string) (model.DayHours, error)

	GetDefaultWeek(ctx context.Context) (*model.DefaultWeek, error)
	ReplaceDefaultWeek(ctx context.Context, week *model.DefaultWeek) error

	ListSeasonalPeriods(ctx context.Context) ([]*model.SeasonalPeriod, error)
	CreateSeasonalPeriod(ctx context.Context, period *model.SeasonalPeriod) error
	DeleteSeasonalPeriod(ctx context.Context, id string) error

	GetDateOverride(ctx context.Context, date string) (*model.DateOverride, error)
	UpsertDateOverride(ctx context.Context, override *model.DateOverride) error
	DeleteDateOverride(ctx context.Context, date string) error
}

type hoursService struct {
	repo      repository.HoursRepository
	validator *validator.HoursValidator
	cfg       *config.Config
}

func NewHoursService(
	repo repository.HoursRepository,
	validator *validator.HoursValidator,
	cfg *config.Config,
) HoursService {
	return &hoursService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Resolve walks the precedence chain for one date: a date override wins
// outright, then the seasonal period covering the date, then the
// default week. The same date always resolves to the same DayHours for
// a given configuration state.
func (s *hoursService) Resolve(ctx context.Context, date string) (model.DayHours, error) {
	parsed, err := model.ParseDate(date)
	if err != nil {
		return model.DayHours{}, apperrors.InvalidInput(err.Error())
	}

	override, err := s.repo.GetDateOverride(ctx, date)
	if err != nil && !errors.Is(err, scheduleerrors.ErrOverrideNotFound) {
		s.cfg.Log.Error("Failed to read date override", "date", date, "error", err)
		return model.DayHours{}, mongotx.StoreError("Failed to resolve opening hours", err)
	}
	if override != nil {
		if override.IsClosed {
			return model.DayHours{IsClosed: true}, nil
		}
		if override.HasHours() {
			return model.DayHours{Open: *override.Open, Close: *override.Close}, nil
		}
		// An open override without a usable range cannot be honored;
		// resolution continues to the next tier.
		s.cfg.Log.Warn("Ignoring date override without usable hours", "date", date)
	}

	periods, err := s.repo.ListSeasonalPeriods(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list seasonal periods", "date", date, "error", err)
		return model.DayHours{}, mongotx.StoreError("Failed to resolve opening hours", err)
	}
	if winner := pickSeasonalPeriod(periods, date); winner != nil {
		if covering := countCovering(periods, date); covering > 1 {
			s.cfg.Log.Warn("Multiple seasonal periods cover date; latest start wins",
				"date", date,
				"covering_periods", covering,
				"winner_id", winner.ID,
				"winner_label", winner.Label,
			)
		}
		return winner.Week.ForDate(parsed), nil
	}

	week, err := s.repo.GetDefaultWeek(ctx)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNoDefaultWeek) {
			return s.fallbackHours(date)
		}
		s.cfg.Log.Error("Failed to read default week", "date", date, "error", err)
		return model.DayHours{}, mongotx.StoreError("Failed to resolve opening hours", err)
	}

	return week.Week.ForDate(parsed), nil
}

// pickSeasonalPeriod selects the covering period with the latest start
// date; among equal start dates the larger ID wins, so resolution stays
// deterministic no matter the store order.
func pickSeasonalPeriod(periods []*model.SeasonalPeriod, date string) *model.SeasonalPeriod {
	var winner *model.SeasonalPeriod
	for _, p := range periods {
		if !p.Covers(date) {
			continue
		}
		if winner == nil ||
			p.StartDate > winner.StartDate ||
			(p.StartDate == winner.StartDate && p.ID > winner.ID) {
			winner = p
		}
	}
	return winner
}

func countCovering(periods []*model.SeasonalPeriod, date string) int {
	n := 0
	for _, p := range periods {
		if p.Covers(date) {
			n++
		}
	}
	return n
}

func (s *hoursService) fallbackHours(date string) (model.DayHours, error) {
	open, err := model.ParseTimeOfDay(s.cfg.DefaultOpen)
	if err != nil {
		return model.DayHours{}, apperrors.Internal("Invalid configured default open time", err)
	}
	closeAt, err := model.ParseTimeOfDay(s.cfg.DefaultClose)
	if err != nil {
		return model.DayHours{}, apperrors.Internal("Invalid configured default close time", err)
	}
	s.cfg.Log.Warn("No default week configured; using configured fallback hours",
		"date", date,
		"open", open.String(),
		"close", closeAt.String(),
	)
	return model.DayHours{Open: open, Close: closeAt}, nil
}

func (s *hoursService) GetDefaultWeek(ctx context.Context) (*model.DefaultWeek, error) {
	week, err := s.repo.GetDefaultWeek(ctx)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNoDefaultWeek) {
			return nil, apperrors.NotFound("Default week schedule is not configured")
		}
		s.cfg.Log.Error("Failed to get default week", "error", err)
		return nil, mongotx.StoreError("Failed to retrieve default week", err)
	}
	return week, nil
}

func (s *hoursService) ReplaceDefaultWeek(ctx context.Context, week *model.DefaultWeek) error {
	if err := s.validator.ValidateDefaultWeek(week); err != nil {
		s.cfg.Log.Warn("Default week validation failed", "error", err)
		return apperrors.Validation("Default week validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.ReplaceDefaultWeek(ctx, week); err != nil {
		s.cfg.Log.Error("Failed to replace default week", "error", err)
		return mongotx.StoreError("Failed to replace default week", err)
	}

	s.cfg.Log.Info("Default week replaced successfully")
	return nil
}

func (s *hoursService) ListSeasonalPeriods(ctx context.Context) ([]*model.SeasonalPeriod, error) {
	periods, err := s.repo.ListSeasonalPeriods(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list seasonal periods", "error", err)
		return nil, mongotx.StoreError("Failed to retrieve seasonal periods", err)
	}
	return periods, nil
}

func (s *hoursService) CreateSeasonalPeriod(ctx context.Context, period *model.SeasonalPeriod) error {
	period.Label = sanitizer.NormalizeLabel(period.Label)

	if err := s.validator.ValidateSeasonalPeriod(period); err != nil {
		s.cfg.Log.Warn("Seasonal period validation failed",
			"label", period.Label,
			"error", err,
		)
		return apperrors.Validation("Seasonal period validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.CreateSeasonalPeriod(ctx, period); err != nil {
		s.cfg.Log.Error("Failed to create seasonal period",
			"label", period.Label,
			"error", err,
		)
		return mongotx.StoreError("Failed to create seasonal period", err)
	}

	s.cfg.Log.Info("Seasonal period created successfully",
		"id", period.ID,
		"label", period.Label,
		"start_date", period.StartDate,
		"end_date", period.EndDate,
	)
	return nil
}

func (s *hoursService) DeleteSeasonalPeriod(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Seasonal period ID cannot be empty")
	}

	if err := s.repo.DeleteSeasonalPeriod(ctx, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrPeriodNotFound) {
			return apperrors.NotFoundWithID("Seasonal period", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid seasonal period ID format")
		}
		s.cfg.Log.Error("Failed to delete seasonal period", "id", id, "error", err)
		return mongotx.StoreError("Failed to delete seasonal period", err)
	}

	s.cfg.Log.Info("Seasonal period deleted successfully", "id", id)
	return nil
}

func (s *hoursService) GetDateOverride(ctx context.Context, date string) (*model.DateOverride, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	override, err := s.repo.GetDateOverride(ctx, date)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrOverrideNotFound) {
			return nil, apperrors.NotFoundWithID("Date override", date)
		}
		s.cfg.Log.Error("Failed to get date override", "date", date, "error", err)
		return nil, mongotx.StoreError("Failed to retrieve date override", err)
	}
	return override, nil
}

func (s *hoursService) UpsertDateOverride(ctx context.Context, override *model.DateOverride) error {
	override.Reason = sanitizer.NormalizeReason(override.Reason)

	if err := s.validator.ValidateDateOverride(override); err != nil {
		s.cfg.Log.Warn("Date override validation failed",
			"date", override.Date,
			"error", err,
		)
		return apperrors.Validation("Date override validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpsertDateOverride(ctx, override); err != nil {
		s.cfg.Log.Error("Failed to upsert date override",
			"date", override.Date,
			"error", err,
		)
		return mongotx.StoreError("Failed to save date override", err)
	}

	s.cfg.Log.Info("Date override saved successfully",
		"date", override.Date,
		"is_closed", override.IsClosed,
	)
	return nil
}

func (s *hoursService) DeleteDateOverride(ctx context.Context, date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.DeleteDateOverride(ctx, date); err != nil {
		if errors.Is(err, scheduleerrors.ErrOverrideNotFound) {
			return apperrors.NotFoundWithID("Date override", date)
		}
		s.cfg.Log.Error("Failed to delete date override", "date", date, "error", err)
		return mongotx.StoreError("Failed to delete date override", err)
	}

	s.cfg.Log.Info("Date override deleted successfully", "date", date)
	return nil
}
