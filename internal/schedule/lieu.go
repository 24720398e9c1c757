package schedule

import (
	"time"

	"coursecal/internal/config"
)

// LieuCalendar holds the concrete exception dates of one location group,
// resolved eagerly against the owning semester's start date. Dates are never
// recomputed after construction.
type LieuCalendar struct {
	Name  string
	Venue string

	// HolidayDates is the set of individual non-teaching dates, used for
	// exclusion matching against course occurrence dates.
	HolidayDates map[time.Time]bool

	// HolidaySpans mirrors the input blocks for the holiday-event pass:
	// each span covers the block's first listed day through its last listed
	// day; End is the day after (exclusive, all-day convention).
	HolidaySpans []HolidaySpan

	// Moves are the resolved make-up pairs, in input order.
	Moves []Move
}

type HolidaySpan struct {
	First time.Time
	End   time.Time
}

// Move is a resolved make-up pair: the session on From is canceled and an
// equivalent session is held on To. Which course it applies to is decided at
// generation time by matching From against occurrence dates.
type Move struct {
	From time.Time
	To   time.Time
}

// BuildLieu resolves a location group's holiday blocks and make-up moves
// into concrete dates relative to the semester start.
func BuildLieu(lieu config.Lieu, start time.Time) LieuCalendar {
	lc := LieuCalendar{
		Name:         lieu.Name,
		Venue:        lieu.Venue,
		HolidayDates: make(map[time.Time]bool),
	}

	for _, h := range lieu.Holidays {
		for _, day := range h.Days {
			lc.HolidayDates[ResolveDate(start, h.Week, day)] = true
		}
		first := h.Days[0]
		last := h.Days[len(h.Days)-1]
		lc.HolidaySpans = append(lc.HolidaySpans, HolidaySpan{
			First: ResolveDate(start, h.Week, first),
			End:   ResolveDate(start, h.Week, last+1),
		})
	}

	for _, m := range lieu.Moves {
		lc.Moves = append(lc.Moves, Move{
			From: ResolveDate(start, m.From.Week, m.From.Day),
			To:   ResolveDate(start, m.To.Week, m.To.Day),
		})
	}

	return lc
}

// AppliesTo reports whether this lieu's exceptions apply to a schedule entry
// at the given location. A lieu without a venue code applies to every entry;
// otherwise the entry's venue code (its first rune) must match.
func (lc LieuCalendar) AppliesTo(location string) bool {
	if lc.Venue == "" {
		return true
	}
	lr := []rune(location)
	vr := []rune(lc.Venue)
	return len(lr) > 0 && len(vr) > 0 && lr[0] == vr[0]
}
