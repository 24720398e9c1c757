package schedule

import (
	"errors"
	"sort"
	"time"

	appLog "coursecal/internal/log"
)

// ResolveDate maps a (week, day) coordinate onto a concrete calendar date:
// semester start + (week-1) weeks + (day-1) days. Every date computed
// anywhere in the pipeline goes through this formula, so exclusion matching
// works by exact equality. Both week and day are 1-based; a day past 7 is a
// valid coordinate and simply lands in a later week.
func ResolveDate(start time.Time, week, day int) time.Time {
	return start.AddDate(0, 0, (week-1)*7+(day-1))
}

// GridWeeks expands [first, last] inclusive, stepping by skip:
// first, first+skip, ... up to the largest value <= last. An empty range
// yields nil.
func GridWeeks(first, last, skip int) []int {
	if last < first {
		return nil
	}
	out := make([]int, 0, (last-first)/skip+1)
	for w := first; w <= last; w += skip {
		out = append(out, w)
	}
	return out
}

// ActiveWeeks reduces a week list to the weeks a single weekly series can
// carry. The recurrence grid spans the list's first through last week,
// stepping by skip. Grid weeks missing from the list are returned separately
// so the caller can exclude their dates from the emitted series; list weeks
// off the grid cannot be part of a weekly rule and are dropped. A plain
// contiguous range therefore comes back unchanged as the grid itself.
func ActiveWeeks(weeks []int, skip int) (active, skipped []int, err error) {
	if len(weeks) == 0 {
		return nil, nil, errors.New("empty week list")
	}
	if skip < 1 {
		return nil, nil, errors.New("skip must be >= 1")
	}

	listed := make(map[int]bool, len(weeks))
	for _, w := range weeks {
		listed[w] = true
	}
	sorted := make([]int, 0, len(listed))
	for w := range listed {
		sorted = append(sorted, w)
	}
	sort.Ints(sorted)

	grid := GridWeeks(sorted[0], sorted[len(sorted)-1], skip)
	onGrid := make(map[int]bool, len(grid))
	for _, w := range grid {
		onGrid[w] = true
		if listed[w] {
			active = append(active, w)
		} else {
			skipped = append(skipped, w)
		}
	}

	// Listed weeks off the grid cannot join a weekly series; surface them
	// rather than dropping sessions without a trace.
	var dropped []int
	for _, w := range sorted {
		if !onGrid[w] {
			dropped = append(dropped, w)
		}
	}
	if len(dropped) > 0 {
		appLog.Debug("listed weeks fall off the recurrence grid",
			"weeks", dropped, "skip", skip)
	}

	if len(active) == 0 {
		return nil, nil, errors.New("no active weeks on the recurrence grid")
	}
	return active, skipped, nil
}
