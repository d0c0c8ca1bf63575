package validator

import (
	"io"
	"testing"

	"lanebook/pkg/logger"
	"lanebook/pkg/model"
)

func testValidator() *HoursValidator {
	return NewHoursValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Output:  io.Discard,
		Service: "test",
	}))
}

func openDay(open, close model.TimeOfDay) model.DayHours {
	return model.DayHours{Open: open, Close: close}
}

func fullWeek(day model.DayHours) model.WeekSchedule {
	var week model.WeekSchedule
	for i := range week {
		week[i] = day
	}
	return week
}

func TestValidateDefaultWeek(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		week    model.WeekSchedule
		wantErr bool
	}{
		{
			name: "valid open week",
			week: fullWeek(openDay(540, 1080)),
		},
		{
			name: "all days closed",
			week: fullWeek(model.DayHours{IsClosed: true}),
		},
		{
			name:    "open equals close",
			week:    fullWeek(openDay(540, 540)),
			wantErr: true,
		},
		{
			name:    "open after close",
			week:    fullWeek(openDay(1080, 540)),
			wantErr: true,
		},
		{
			name:    "close past end of day",
			week:    fullWeek(openDay(540, 1440)),
			wantErr: true,
		},
		{
			name:    "negative open",
			week:    fullWeek(openDay(-1, 540)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDefaultWeek(&model.DefaultWeek{Week: tt.week})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDefaultWeek() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeasonalPeriod(t *testing.T) {
	v := testValidator()
	week := fullWeek(openDay(420, 1320))

	tests := []struct {
		name    string
		period  model.SeasonalPeriod
		wantErr bool
	}{
		{
			name: "valid period",
			period: model.SeasonalPeriod{
				StartDate: "2026-06-01",
				EndDate:   "2026-08-31",
				Label:     "summer",
				Week:      week,
			},
		},
		{
			name: "single day period",
			period: model.SeasonalPeriod{
				StartDate: "2026-06-01",
				EndDate:   "2026-06-01",
				Label:     "open day",
				Week:      week,
			},
		},
		{
			name: "end before start",
			period: model.SeasonalPeriod{
				StartDate: "2026-08-31",
				EndDate:   "2026-06-01",
				Label:     "summer",
				Week:      week,
			},
			wantErr: true,
		},
		{
			name: "malformed start date",
			period: model.SeasonalPeriod{
				StartDate: "01-06-2026",
				EndDate:   "2026-08-31",
				Label:     "summer",
				Week:      week,
			},
			wantErr: true,
		},
		{
			name: "impossible calendar date",
			period: model.SeasonalPeriod{
				StartDate: "2026-02-30",
				EndDate:   "2026-08-31",
				Label:     "summer",
				Week:      week,
			},
			wantErr: true,
		},
		{
			name: "missing label",
			period: model.SeasonalPeriod{
				StartDate: "2026-06-01",
				EndDate:   "2026-08-31",
				Week:      week,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSeasonalPeriod(&tt.period)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeasonalPeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateOverride(t *testing.T) {
	v := testValidator()
	open := model.TimeOfDay(600)
	closeAt := model.TimeOfDay(960)

	tests := []struct {
		name     string
		override model.DateOverride
		wantErr  bool
	}{
		{
			name:     "closed day",
			override: model.DateOverride{Date: "2026-12-25", IsClosed: true, Reason: "holiday"},
		},
		{
			name:     "replacement hours",
			override: model.DateOverride{Date: "2026-12-24", Open: &open, Close: &closeAt},
		},
		{
			name:     "open without hours",
			override: model.DateOverride{Date: "2026-12-24"},
			wantErr:  true,
		},
		{
			name:     "open only one bound",
			override: model.DateOverride{Date: "2026-12-24", Open: &open},
			wantErr:  true,
		},
		{
			name:     "bad date",
			override: model.DateOverride{Date: "24/12/2026", IsClosed: true},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDateOverride(&tt.override)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDateOverride() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
