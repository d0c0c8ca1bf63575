package model

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input     string
		want      TimeOfDay
		wantError bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{"12:30", 750, false},
		{"9:00", 0, true},  // zero-padding required
		{"24:00", 0, true}, // hour out of range
		{"09:60", 0, true}, // minute out of range
		{"09-00", 0, true}, // wrong separator
		{"", 0, true},
		{"0900", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q): expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayString_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "17:05", "23:59"} {
		v, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if v.String() != s {
			t.Errorf("round trip %q -> %q", s, v.String())
		}
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{"disjoint", TimeRange{540, 600}, TimeRange{600, 660}, false},
		{"touching is not overlap", TimeRange{540, 600}, TimeRange{600, 720}, false},
		{"contained", TimeRange{540, 720}, TimeRange{600, 660}, true},
		{"partial", TimeRange{540, 630}, TimeRange{600, 720}, true},
		{"identical", TimeRange{540, 600}, TimeRange{540, 600}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday, _ := time.Parse(DateLayout, "2026-08-24")
	for i := 0; i < DaysPerWeek; i++ {
		d := monday.AddDate(0, 0, i)
		if got := WeekdayIndex(d.Weekday()); got != i {
			t.Errorf("WeekdayIndex(%s) = %d, want %d", d.Weekday(), got, i)
		}
	}
}

func TestSeasonalPeriodCovers(t *testing.T) {
	p := &SeasonalPeriod{StartDate: "2026-06-01", EndDate: "2026-08-31"}

	if !p.Covers("2026-06-01") {
		t.Error("start date should be covered (inclusive)")
	}
	if !p.Covers("2026-08-31") {
		t.Error("end date should be covered (inclusive)")
	}
	if p.Covers("2026-05-31") {
		t.Error("day before start should not be covered")
	}
	if p.Covers("2026-09-01") {
		t.Error("day after end should not be covered")
	}
}

func TestDateOverrideHasHours(t *testing.T) {
	open := TimeOfDay(540)
	close := TimeOfDay(1080)
	bad := TimeOfDay(500)

	tests := []struct {
		name string
		o    DateOverride
		want bool
	}{
		{"both set", DateOverride{Open: &open, Close: &close}, true},
		{"missing open", DateOverride{Close: &close}, false},
		{"missing close", DateOverride{Open: &open}, false},
		{"inverted", DateOverride{Open: &close, Close: &bad}, false},
		{"empty", DateOverride{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.HasHours(); got != tt.want {
				t.Errorf("HasHours() = %v, want %v", got, tt.want)
			}
		})
	}
}
