package model

import "time"

// Event is one fully-resolved calendar entry ready for serialization.
// It is either a single-occurrence event (a holiday block, an adjusted
// session) or a weekly-recurring event (one course schedule entry). The
// generator produces Events; the emitter knows nothing about semesters,
// weeks, or periods and serializes Events as-is.
type Event struct {
	// UID uniquely identifies the event within the output calendar.
	// Recurring series and holiday blocks use "<semester>:<name>#<index>";
	// date-keyed single events use "<semester>:<name>@<yyyymmdd>".
	UID string

	Summary     string
	Location    string
	Description string

	// AllDay marks a date-valued event; End is then exclusive.
	AllDay bool

	// Start / End carry local wall-clock time in the calendar's fixed zone.
	Start time.Time
	End   time.Time

	// Recurring events repeat weekly from Start until Until (inclusive),
	// stepping Interval weeks, minus the dates listed in ExDates.
	Recurring bool
	Interval  int
	Until     time.Time
	ExDates   []time.Time
}
