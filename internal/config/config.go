package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// NOTE: This file provides the schedule-document model and YAML loading,
// including the custom scalar notations of the input format ("A-B" week
// ranges, "HH:MM[:SS]" clock times, "YYYY-MM-DD" dates). The core only ever
// sees fully-expanded values; the compact notations never leave this package.

// WeekList is an expanded, ordered list of week numbers. In the input it may
// be written as a single int, an "A-B" inclusive range, or a sequence of ints.
type WeekList []int

var weekRangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

func (w *WeekList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if m := weekRangePattern.FindStringSubmatch(s); m != nil {
			first, _ := strconv.Atoi(m[1])
			last, _ := strconv.Atoi(m[2])
			if first > last {
				return fmt.Errorf("line %d: week range %q is descending", value.Line, s)
			}
			out := make(WeekList, 0, last-first+1)
			for i := first; i <= last; i++ {
				out = append(out, i)
			}
			*w = out
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("line %d: invalid week value %q", value.Line, value.Value)
		}
		*w = WeekList{n}
		return nil
	case yaml.SequenceNode:
		var ns []int
		if err := value.Decode(&ns); err != nil {
			return err
		}
		*w = ns
		return nil
	default:
		return fmt.Errorf("line %d: weeks must be an int, an \"A-B\" range, or a list", value.Line)
	}
}

// ClockTime is a wall-clock time of day parsed from "HH:MM" or "HH:MM:SS".
type ClockTime struct {
	Hour   int
	Minute int
	Second int

	set bool
}

// NewClock builds a ClockTime from components. Used by callers constructing
// documents in code (mostly tests).
func NewClock(hour, minute, second int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute, Second: second, set: true}
}

func ParseClock(s string) (ClockTime, error) {
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	return NewClock(t.Hour(), t.Minute(), t.Second()), nil
}

// IsSet reports whether the value was actually present in the input;
// the zero ClockTime is indistinguishable from midnight otherwise.
func (c ClockTime) IsSet() bool { return c.set }

// On composes the clock time onto the given date, preserving its location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		c.Hour, c.Minute, c.Second, 0, date.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// seconds is the offset from midnight, for ordering checks.
func (c ClockTime) seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

func (c *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: clock time must be a scalar", value.Line)
	}
	parsed, err := ParseClock(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// Date is a date-only value ("YYYY-MM-DD"). It is carried at midnight UTC;
// the emitter renders wall dates with the calendar's fixed TZID, so no zone
// conversion ever applies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid date %q", value.Line, value.Value)
	}
	d.Time = t
	return nil
}

// Document is the top-level schedule description.
type Document struct {
	// Name is the calendar title (X-WR-CALNAME).
	Name string `yaml:"name"`

	// Periods maps a period index to its time-of-day slot. Schedule entries
	// reference periods by index.
	Periods map[int]Period `yaml:"periods"`

	Semesters []Semester `yaml:"semesters"`
}

// Period is a named time-of-day slot.
type Period struct {
	Start ClockTime `yaml:"start"`
	End   ClockTime `yaml:"end"`
}

type Semester struct {
	Name string `yaml:"name"`

	// Start is the semester's first day, week 1 day 1 (a Monday by
	// convention). Every date in the semester derives from it.
	Start Date `yaml:"start"`

	Lieux   []Lieu   `yaml:"lieux"`
	Courses []Course `yaml:"courses"`
}

// Lieu is a venue/campus whose schedule carries its own exceptions.
type Lieu struct {
	Name string `yaml:"name"`

	// Venue is an optional single-letter venue code. When set, the lieu's
	// holidays and moves apply only to schedule entries whose location
	// starts with that code; when empty, they apply to every entry.
	Venue string `yaml:"venue"`

	Holidays []HolidayBlock `yaml:"holidays"`

	// Moves is the make-up move list. The input format calls this field
	// "courses" for legacy reasons.
	Moves []MakeUpMove `yaml:"courses"`
}

// HolidayBlock lists non-teaching days within one week. Days are 1-based
// offsets from the week's first day and must be ascending.
type HolidayBlock struct {
	Week int   `yaml:"week"`
	Days []int `yaml:"days"`
}

// Coordinate addresses a single day as (week, day), both 1-based. A day may
// run past 7; it resolves through the same date formula as everything else.
type Coordinate struct {
	Week int `yaml:"week"`
	Day  int `yaml:"day"`
}

// MakeUpMove reschedules one session: the class normally held on From is
// canceled and held on To instead.
type MakeUpMove struct {
	From Coordinate `yaml:"from"`
	To   Coordinate `yaml:"to"`
}

type Course struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Teacher  string          `yaml:"teacher"`
	Schedule []ScheduleEntry `yaml:"schedule"`
}

// ScheduleEntry is one weekly-recurring slot of a course.
type ScheduleEntry struct {
	Weeks WeekList `yaml:"weeks"`
	Day   int      `yaml:"day"`

	// Periods holds the first and last period index of a contiguous block:
	// start time comes from the first period, end time from the last.
	Periods []int `yaml:"periods"`

	// Skip is the recurrence interval in weeks (1 = every week). Zero means
	// unset and defaults to 1.
	Skip int `yaml:"skip"`

	Location string `yaml:"location"`
}

// Load reads and validates a schedule document from the given YAML path.
// Any malformed or missing field aborts the load: a partial calendar is
// worse than no calendar.
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("schedule path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Normalize fills in defaulted values (currently only Skip).
func (d *Document) Normalize() {
	for si := range d.Semesters {
		for ci := range d.Semesters[si].Courses {
			sched := d.Semesters[si].Courses[ci].Schedule
			for ei := range sched {
				if sched[ei].Skip == 0 {
					sched[ei].Skip = 1
				}
			}
		}
	}
}

// Validate checks every field the date computation depends on. It reports
// the first problem found, qualified with enough context to locate it.
func (d *Document) Validate() error {
	if d.Name == "" {
		return errors.New("document: missing name")
	}
	if len(d.Periods) == 0 {
		return errors.New("document: no periods defined")
	}
	indices := make([]int, 0, len(d.Periods))
	for idx := range d.Periods {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		p := d.Periods[idx]
		if !p.Start.IsSet() || !p.End.IsSet() {
			return fmt.Errorf("period %d: missing start or end time", idx)
		}
		if p.End.seconds() <= p.Start.seconds() {
			return fmt.Errorf("period %d: end %s is not after start %s", idx, p.End, p.Start)
		}
	}

	for _, sem := range d.Semesters {
		if sem.Name == "" {
			return errors.New("semester: missing name")
		}
		if sem.Start.IsZero() {
			return fmt.Errorf("semester %q: missing start date", sem.Name)
		}
		for _, lieu := range sem.Lieux {
			if err := validateLieu(lieu); err != nil {
				return fmt.Errorf("semester %q: %w", sem.Name, err)
			}
		}
		for _, course := range sem.Courses {
			if err := d.validateCourse(course); err != nil {
				return fmt.Errorf("semester %q: %w", sem.Name, err)
			}
		}
	}
	return nil
}

func validateLieu(lieu Lieu) error {
	if lieu.Name == "" {
		return errors.New("lieu: missing name")
	}
	for i, h := range lieu.Holidays {
		if h.Week < 1 {
			return fmt.Errorf("lieu %q: holiday[%d]: week must be >= 1", lieu.Name, i)
		}
		if len(h.Days) == 0 {
			return fmt.Errorf("lieu %q: holiday[%d]: empty day list", lieu.Name, i)
		}
		prev := 0
		for _, day := range h.Days {
			if day < 1 {
				return fmt.Errorf("lieu %q: holiday[%d]: day must be >= 1", lieu.Name, i)
			}
			if day <= prev {
				return fmt.Errorf("lieu %q: holiday[%d]: days must be ascending", lieu.Name, i)
			}
			prev = day
		}
	}
	for i, m := range lieu.Moves {
		for _, c := range []Coordinate{m.From, m.To} {
			if c.Week < 1 || c.Day < 1 {
				return fmt.Errorf("lieu %q: move[%d]: week and day must be >= 1", lieu.Name, i)
			}
		}
	}
	return nil
}

func (d *Document) validateCourse(course Course) error {
	if course.ID == "" {
		return errors.New("course: missing id")
	}
	if course.Name == "" {
		return fmt.Errorf("course %s: missing name", course.ID)
	}
	for i, entry := range course.Schedule {
		if len(entry.Weeks) == 0 {
			return fmt.Errorf("course %s: schedule[%d]: empty week list", course.ID, i)
		}
		for _, w := range entry.Weeks {
			if w < 1 {
				return fmt.Errorf("course %s: schedule[%d]: week must be >= 1", course.ID, i)
			}
		}
		if entry.Day < 1 {
			return fmt.Errorf("course %s: schedule[%d]: day must be >= 1", course.ID, i)
		}
		if entry.Skip < 1 {
			return fmt.Errorf("course %s: schedule[%d]: skip must be >= 1", course.ID, i)
		}
		if len(entry.Periods) == 0 {
			return fmt.Errorf("course %s: schedule[%d]: no periods", course.ID, i)
		}
		for _, idx := range entry.Periods {
			if _, ok := d.Periods[idx]; !ok {
				return fmt.Errorf("course %s: schedule[%d]: unknown period %d", course.ID, i, idx)
			}
		}
		if entry.Location == "" {
			return fmt.Errorf("course %s: schedule[%d]: missing location", course.ID, i)
		}
	}
	return nil
}
