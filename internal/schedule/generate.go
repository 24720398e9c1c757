package schedule

import (
	"fmt"
	"sort"
	"time"

	"coursecal/internal/config"
	appLog "coursecal/internal/log"
	"coursecal/internal/model"
)

// Generate walks the whole document and produces the flat event list in
// deterministic output order: semesters in input order, each semester's
// holiday/adjustment events first, then course events, each recurring series
// immediately followed by the make-up sessions it triggered.
//
// Any inconsistency that would silently drop a class session (unknown period
// index, unresolvable week list) aborts generation instead.
func Generate(doc *config.Document) ([]model.Event, error) {
	var events []model.Event

	for si := range doc.Semesters {
		sem := &doc.Semesters[si]

		lieux := make([]LieuCalendar, 0, len(sem.Lieux))
		for _, l := range sem.Lieux {
			lieux = append(lieux, BuildLieu(l, sem.Start.Time))
		}

		events = append(events, lieuEvents(sem.Name, lieux)...)

		for _, course := range sem.Courses {
			for i, entry := range course.Schedule {
				evs, err := entryEvents(doc, sem.Name, sem.Start.Time, lieux, course, i, entry)
				if err != nil {
					return nil, fmt.Errorf("semester %q: course %s: schedule[%d]: %w",
						sem.Name, course.ID, i, err)
				}
				events = append(events, evs...)
			}
		}

		appLog.Info("semester generated", "semester", sem.Name,
			"lieu_count", len(lieux), "course_count", len(sem.Courses))
	}

	return events, nil
}

// lieuEvents is the holiday-event pass: one all-day event per holiday block
// and one per make-up move, independent of any course schedule.
func lieuEvents(semName string, lieux []LieuCalendar) []model.Event {
	var events []model.Event
	for _, lc := range lieux {
		for i, span := range lc.HolidaySpans {
			events = append(events, model.Event{
				UID:     fmt.Sprintf("%s:%s#%d", semName, lc.Name, i),
				Summary: lc.Name + " holiday",
				AllDay:  true,
				Start:   span.First,
				End:     span.End,
			})
		}
		for _, mv := range lc.Moves {
			events = append(events, model.Event{
				UID:         fmt.Sprintf("%s:%s@%s", semName, lc.Name, mv.To.Format("20060102")),
				Summary:     lc.Name + " adjusted session",
				Description: "Moved from " + mv.From.Format("2006-01-02"),
				AllDay:      true,
				Start:       mv.To,
				End:         mv.To.AddDate(0, 0, 1),
			})
		}
	}
	return events
}

// entryEvents turns one schedule entry into its recurring event plus any
// make-up sessions. Reconciliation rules, applied over the entry's
// occurrence dates for every lieu matching the entry's location:
//
//   - an occurrence on a holiday date is excluded from the series;
//   - a move whose From date is an occurrence excludes that occurrence and
//     adds one single session on the To date with the entry's own times;
//   - a move whose To date collides with a normal occurrence excludes that
//     occurrence too, so the date carries exactly one session;
//   - a move whose From date never occurs is inert.
//
// Exclusions are a set: a date qualifying for several reasons appears once.
func entryEvents(doc *config.Document, semName string, start time.Time,
	lieux []LieuCalendar, course config.Course, index int, entry config.ScheduleEntry) ([]model.Event, error) {

	active, skippedGrid, err := ActiveWeeks(entry.Weeks, entry.Skip)
	if err != nil {
		return nil, err
	}

	occurrences := make([]time.Time, 0, len(active))
	occSet := make(map[time.Time]bool, len(active))
	for _, w := range active {
		d := ResolveDate(start, w, entry.Day)
		occurrences = append(occurrences, d)
		occSet[d] = true
	}
	firstDate := occurrences[0]
	lastDate := occurrences[len(occurrences)-1]

	firstPeriod, ok := doc.Periods[entry.Periods[0]]
	if !ok {
		return nil, fmt.Errorf("unknown period %d", entry.Periods[0])
	}
	lastIdx := entry.Periods[len(entry.Periods)-1]
	lastPeriod, ok := doc.Periods[lastIdx]
	if !ok {
		return nil, fmt.Errorf("unknown period %d", lastIdx)
	}
	startClock := firstPeriod.Start
	endClock := lastPeriod.End

	exSet := make(map[time.Time]bool)
	// Grid weeks dropped from an explicit week list still sit on the weekly
	// rule; their dates must be excluded.
	for _, w := range skippedGrid {
		exSet[ResolveDate(start, w, entry.Day)] = true
	}

	type makeup struct {
		lieu     string
		from, to time.Time
	}
	var makeups []makeup

	for _, lc := range lieux {
		if !lc.AppliesTo(entry.Location) {
			continue
		}
		for _, d := range occurrences {
			if lc.HolidayDates[d] {
				exSet[d] = true
			}
		}
		for _, mv := range lc.Moves {
			if occSet[mv.To] {
				exSet[mv.To] = true
			}
			if !occSet[mv.From] {
				appLog.Debug("make-up move matches no occurrence",
					"course", course.ID, "lieu", lc.Name,
					"from", mv.From.Format("2006-01-02"))
				continue
			}
			exSet[mv.From] = true
			makeups = append(makeups, makeup{lieu: lc.Name, from: mv.From, to: mv.To})
		}
	}

	exDates := make([]time.Time, 0, len(exSet))
	for d := range exSet {
		exDates = append(exDates, startClock.On(d))
	}
	sort.Slice(exDates, func(i, j int) bool { return exDates[i].Before(exDates[j]) })

	description := fmt.Sprintf("Course ID: %s\nTeacher: %s", course.ID, course.Teacher)

	events := []model.Event{{
		UID:         fmt.Sprintf("%s:%s#%d", semName, course.Name, index),
		Summary:     course.Name,
		Location:    entry.Location,
		Description: description,
		Start:       startClock.On(firstDate),
		End:         endClock.On(firstDate),
		Recurring:   true,
		Interval:    entry.Skip,
		Until:       endOfDay(lastDate),
		ExDates:     exDates,
	}}

	for _, m := range makeups {
		events = append(events, model.Event{
			UID:      fmt.Sprintf("%s:%s@%s", semName, course.Name, m.to.Format("20060102")),
			Summary:  course.Name,
			Location: entry.Location,
			Description: fmt.Sprintf("%s: moved from %s\n%s",
				m.lieu, m.from.Format("2006-01-02"), description),
			Start: startClock.On(m.to),
			End:   endClock.On(m.to),
		})
	}

	return events, nil
}

// endOfDay bounds a weekly rule at the last occurrence date. 23:59:59 UTC is
// past every wall-clock start on that date in the calendar's fixed zone.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}
