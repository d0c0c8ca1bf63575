package interval

import (
	"testing"

	"lanebook/pkg/model"
)

func mustTime(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func rng(t *testing.T, start, end string) model.TimeRange {
	t.Helper()
	return model.TimeRange{Start: mustTime(t, start), End: mustTime(t, end)}
}

func TestFreeWindows_NoBlocks(t *testing.T) {
	windows := FreeWindows(mustTime(t, "09:00"), mustTime(t, "18:00"), nil)
	if len(windows) != 1 {
		t.Fatalf("expected single window, got %v", windows)
	}
	if windows[0] != rng(t, "09:00", "18:00") {
		t.Errorf("expected full range, got %v", windows[0])
	}
}

func TestFreeWindows_FullCover(t *testing.T) {
	windows := FreeWindows(mustTime(t, "09:00"), mustTime(t, "18:00"),
		[]model.TimeRange{rng(t, "09:00", "18:00")})
	if len(windows) != 0 {
		t.Fatalf("block equal to open hours must yield zero windows, got %v", windows)
	}
}

func TestFreeWindows_SubtractsAndMerges(t *testing.T) {
	tests := []struct {
		name   string
		blocks []model.TimeRange
		want   []model.TimeRange
	}{
		{
			name:   "single middle block",
			blocks: []model.TimeRange{rng(t, "12:00", "13:00")},
			want:   []model.TimeRange{rng(t, "09:00", "12:00"), rng(t, "13:00", "18:00")},
		},
		{
			name:   "touching blocks merge",
			blocks: []model.TimeRange{rng(t, "10:00", "11:00"), rng(t, "11:00", "12:00")},
			want:   []model.TimeRange{rng(t, "09:00", "10:00"), rng(t, "12:00", "18:00")},
		},
		{
			name:   "overlapping blocks merge",
			blocks: []model.TimeRange{rng(t, "10:00", "12:00"), rng(t, "11:00", "13:00")},
			want:   []model.TimeRange{rng(t, "09:00", "10:00"), rng(t, "13:00", "18:00")},
		},
		{
			name:   "unsorted input",
			blocks: []model.TimeRange{rng(t, "15:00", "16:00"), rng(t, "10:00", "11:00")},
			want: []model.TimeRange{
				rng(t, "09:00", "10:00"),
				rng(t, "11:00", "15:00"),
				rng(t, "16:00", "18:00"),
			},
		},
		{
			name:   "block clipped to open hours",
			blocks: []model.TimeRange{rng(t, "07:00", "10:00"), rng(t, "17:00", "20:00")},
			want:   []model.TimeRange{rng(t, "10:00", "17:00")},
		},
		{
			name:   "block entirely outside is dropped",
			blocks: []model.TimeRange{rng(t, "06:00", "08:00")},
			want:   []model.TimeRange{rng(t, "09:00", "18:00")},
		},
		{
			name:   "block at open edge",
			blocks: []model.TimeRange{rng(t, "09:00", "10:00")},
			want:   []model.TimeRange{rng(t, "10:00", "18:00")},
		},
		{
			name:   "block at close edge",
			blocks: []model.TimeRange{rng(t, "17:00", "18:00")},
			want:   []model.TimeRange{rng(t, "09:00", "17:00")},
		},
	}

	open, close := mustTime(t, "09:00"), mustTime(t, "18:00")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeWindows(open, close, tt.blocks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Free windows must be pairwise disjoint, ascending, non-empty,
// contained in [open, close), and conserve total duration.
func TestFreeWindows_Properties(t *testing.T) {
	open, close := model.TimeOfDay(540), model.TimeOfDay(1080)

	cases := [][]model.TimeRange{
		nil,
		{{Start: 600, End: 660}},
		{{Start: 540, End: 1080}},
		{{Start: 500, End: 560}, {Start: 550, End: 620}, {Start: 900, End: 2000}},
		{{Start: 700, End: 700}},                         // zero length
		{{Start: 800, End: 700}},                         // inverted
		{{Start: 600, End: 660}, {Start: 660, End: 720}}, // touching
	}

	for i, blocks := range cases {
		windows := FreeWindows(open, close, blocks)
		merged := ClipAndMerge(open, close, blocks)

		blockedTotal := 0
		for _, b := range merged {
			blockedTotal += b.Duration()
		}

		freeTotal := 0
		prevEnd := model.TimeOfDay(-1)
		for _, w := range windows {
			if w.Start >= w.End {
				t.Errorf("case %d: empty window %v", i, w)
			}
			if w.Start < open || w.End > close {
				t.Errorf("case %d: window %v outside [%v, %v)", i, w, open, close)
			}
			if w.Start <= prevEnd {
				t.Errorf("case %d: windows not disjoint/ascending at %v", i, w)
			}
			prevEnd = w.End
			freeTotal += w.Duration()
		}

		if want := int(close-open) - blockedTotal; freeTotal != want {
			t.Errorf("case %d: total free %d, want %d", i, freeTotal, want)
		}
	}
}

// IsRangeFree must agree with FreeWindows: a candidate is free exactly
// when it fits entirely inside some free window.
func TestIsRangeFree_AgreesWithFreeWindows(t *testing.T) {
	open, close := model.TimeOfDay(540), model.TimeOfDay(720)

	blockSets := [][]model.TimeRange{
		nil,
		{{Start: 570, End: 600}},
		{{Start: 540, End: 720}},
		{{Start: 560, End: 590}, {Start: 650, End: 680}},
		{{Start: 500, End: 560}},
	}

	containedInWindow := func(windows []model.TimeRange, s, e model.TimeOfDay) bool {
		for _, w := range windows {
			if s >= w.Start && e <= w.End {
				return true
			}
		}
		return false
	}

	for setIdx, blocks := range blockSets {
		windows := FreeWindows(open, close, blocks)
		for s := open - 30; s <= close; s += 10 {
			for e := s - 10; e <= close+30; e += 10 {
				got := IsRangeFree(open, close, blocks, s, e)
				want := s < e && s >= open && e <= close && containedInWindow(windows, s, e)
				if got != want {
					t.Fatalf("set %d: IsRangeFree(%v, %v) = %v, want %v", setIdx, s, e, got, want)
				}
			}
		}
	}
}

func TestIsRangeFree_Boundaries(t *testing.T) {
	open, close := mustTime(t, "09:00"), mustTime(t, "18:00")
	blocks := []model.TimeRange{rng(t, "12:00", "13:00")}

	tests := []struct {
		name string
		s, e string
		want bool
	}{
		{"starts exactly at open", "09:00", "10:00", true},
		{"ends exactly at close", "17:00", "18:00", true},
		{"ends exactly where block starts", "11:00", "12:00", true},
		{"starts exactly where block ends", "13:00", "14:00", true},
		{"overlaps block head", "11:30", "12:30", false},
		{"overlaps block tail", "12:30", "13:30", false},
		{"before open", "08:30", "09:30", false},
		{"past close", "17:30", "18:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRangeFree(open, close, blocks, mustTime(t, tt.s), mustTime(t, tt.e))
			if got != tt.want {
				t.Errorf("IsRangeFree(%s, %s) = %v, want %v", tt.s, tt.e, got, tt.want)
			}
		})
	}

	if IsRangeFree(open, close, nil, mustTime(t, "10:00"), mustTime(t, "10:00")) {
		t.Error("zero-length range must not be free")
	}
}

// Scenario: 09:00-18:00 open, no blocks, 60-minute slots on a
// 30-minute grid -> 09:00 through 17:00, 17 entries.
func TestEnumerateStarts_FullDay(t *testing.T) {
	windows := []model.TimeRange{rng(t, "09:00", "18:00")}
	starts := EnumerateStarts(windows, 60, 30)

	if len(starts) != 17 {
		t.Fatalf("expected 17 starts, got %d: %v", len(starts), starts)
	}
	if starts[0] != mustTime(t, "09:00") {
		t.Errorf("first start = %v, want 09:00", starts[0])
	}
	if starts[len(starts)-1] != mustTime(t, "17:00") {
		t.Errorf("last start = %v, want 17:00", starts[len(starts)-1])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i]-starts[i-1] != 30 {
			t.Errorf("uneven grid between %v and %v", starts[i-1], starts[i])
		}
	}
}

// Scenario: lunch block 12:00-13:00 removes 12:00 and 12:30 for a
// 60-minute duration but keeps 11:00 and 13:00.
func TestEnumerateStarts_AroundBlock(t *testing.T) {
	windows := FreeWindows(mustTime(t, "09:00"), mustTime(t, "18:00"),
		[]model.TimeRange{rng(t, "12:00", "13:00")})
	starts := EnumerateStarts(windows, 60, 30)

	has := func(s string) bool {
		v := mustTime(t, s)
		for _, st := range starts {
			if st == v {
				return true
			}
		}
		return false
	}

	for _, absent := range []string{"11:30", "12:00", "12:30"} {
		if has(absent) {
			t.Errorf("start %s should be excluded by the block", absent)
		}
	}
	for _, present := range []string{"11:00", "13:00"} {
		if !has(present) {
			t.Errorf("start %s should remain valid", present)
		}
	}
}

func TestEnumerateStarts_Edges(t *testing.T) {
	t.Run("duration longer than every window", func(t *testing.T) {
		windows := []model.TimeRange{rng(t, "09:00", "09:45"), rng(t, "14:00", "14:30")}
		if starts := EnumerateStarts(windows, 60, 30); len(starts) != 0 {
			t.Errorf("expected no availability, got %v", starts)
		}
	})

	t.Run("unsorted windows produce ascending output", func(t *testing.T) {
		windows := []model.TimeRange{rng(t, "15:00", "16:00"), rng(t, "09:00", "10:00")}
		starts := EnumerateStarts(windows, 30, 30)
		for i := 1; i < len(starts); i++ {
			if starts[i] <= starts[i-1] {
				t.Fatalf("starts not ascending: %v", starts)
			}
		}
		if starts[0] != mustTime(t, "09:00") {
			t.Errorf("first start = %v, want 09:00", starts[0])
		}
	})

	t.Run("non-positive inputs", func(t *testing.T) {
		windows := []model.TimeRange{rng(t, "09:00", "18:00")}
		if starts := EnumerateStarts(windows, 0, 30); starts != nil {
			t.Errorf("zero duration must yield nil, got %v", starts)
		}
		if starts := EnumerateStarts(windows, 60, 0); starts != nil {
			t.Errorf("zero step must yield nil, got %v", starts)
		}
	})

	t.Run("duration exactly window length", func(t *testing.T) {
		windows := []model.TimeRange{rng(t, "09:00", "10:00")}
		starts := EnumerateStarts(windows, 60, 30)
		if len(starts) != 1 || starts[0] != mustTime(t, "09:00") {
			t.Errorf("expected single start at 09:00, got %v", starts)
		}
	})
}

func TestFreeWindows_InvalidOpenHours(t *testing.T) {
	if w := FreeWindows(600, 540, nil); w != nil {
		t.Errorf("inverted open hours must yield nil, got %v", w)
	}
	if w := FreeWindows(600, 600, nil); w != nil {
		t.Errorf("zero-length open hours must yield nil, got %v", w)
	}
}
