// Package interval implements the pure time-window arithmetic shared by
// every availability consumer: clipping and merging blocked ranges,
// computing free windows inside a day's open hours, point-testing a
// candidate range, and enumerating grid-aligned start times. All
// functions are stateless computations over their inputs and perform
// no I/O.
package interval

import (
	"sort"

	"lanebook/pkg/model"
)

// ClipAndMerge normalizes a set of blocked ranges against [open, close):
// every range is clipped to the open hours, empty results are dropped,
// and ranges that overlap or touch are coalesced. The result is sorted
// ascending and pairwise disjoint with positive gaps between entries.
func ClipAndMerge(open, close model.TimeOfDay, blocks []model.TimeRange) []model.TimeRange {
	clipped := make([]model.TimeRange, 0, len(blocks))
	for _, b := range blocks {
		s, e := b.Start, b.End
		if s < open {
			s = open
		}
		if e > close {
			e = close
		}
		if s < e {
			clipped = append(clipped, model.TimeRange{Start: s, End: e})
		}
	}

	if len(clipped) == 0 {
		return nil
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start < clipped[j].Start
	})

	merged := clipped[:1]
	for _, b := range clipped[1:] {
		last := &merged[len(merged)-1]
		if b.Start <= last.End {
			if b.End > last.End {
				last.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// FreeWindows subtracts the blocked ranges from [open, close) and
// returns the remaining free windows in ascending order. With no
// blocks the single window [open, close) is returned; if the blocks
// cover the whole range the result is empty. Zero-length gaps are
// never emitted.
func FreeWindows(open, close model.TimeOfDay, blocks []model.TimeRange) []model.TimeRange {
	if open >= close {
		return nil
	}

	merged := ClipAndMerge(open, close, blocks)

	var windows []model.TimeRange
	cursor := open
	for _, b := range merged {
		if b.Start > cursor {
			windows = append(windows, model.TimeRange{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if cursor < close {
		windows = append(windows, model.TimeRange{Start: cursor, End: close})
	}
	return windows
}

// IsRangeFree reports whether the exact candidate [s, e) lies inside
// the open hours and intersects no blocked range. It deliberately does
// not call FreeWindows: the direct overlap test is the commit-time
// check and the two are cross-verified in tests.
func IsRangeFree(open, close model.TimeOfDay, blocks []model.TimeRange, s, e model.TimeOfDay) bool {
	if s >= e || s < open || e > close {
		return false
	}
	for _, b := range ClipAndMerge(open, close, blocks) {
		if s < b.End && b.Start < e {
			return false
		}
	}
	return true
}

// EnumerateStarts lists every grid-aligned start time at which a slot
// of durationMin fits entirely inside one of the windows. Starts
// advance from each window's own start in stepMin increments. Windows
// need not arrive sorted; the output is ascending. An empty result
// means no availability, which callers must treat as a normal outcome.
func EnumerateStarts(windows []model.TimeRange, durationMin, stepMin int) []model.TimeOfDay {
	if durationMin <= 0 || stepMin <= 0 {
		return nil
	}

	sorted := make([]model.TimeRange, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var starts []model.TimeOfDay
	for _, w := range sorted {
		for t := w.Start; int(t)+durationMin <= int(w.End); t += model.TimeOfDay(stepMin) {
			starts = append(starts, t)
		}
	}
	return starts
}
