package ics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"coursecal/internal/model"
)

const (
	productID       = "-//coursecal//coursecal//EN"
	defaultTimezone = "Asia/Shanghai"

	layoutDate     = "20060102"
	layoutDateTime = "20060102T150405"
)

// venueAddresses expands known venue codes (the first rune of a location
// string) into full campus addresses appended to the raw location text.
// Unknown codes pass through unchanged.
var venueAddresses = map[rune]string{
	'H': "\n上海市杨浦区邯郸路 220 号复旦大学邯郸校区, 上海, 上海, 200433",
	'J': "\n上海市杨浦区淞沪路 2005 号复旦大学江湾校区, 上海, 上海, 200438",
}

// Options controls document-level emission.
type Options struct {
	// Name is the calendar title (X-WR-CALNAME).
	Name string

	// Timezone is the fixed TZID stamped on every date property.
	// Defaults to Asia/Shanghai.
	Timezone string

	// Now is the generation timestamp used for every DTSTAMP. The emitter
	// never reads the wall clock itself, so output is reproducible.
	Now time.Time
}

// Emit serializes the generated events into a single iCalendar document.
// Events appear in the order given; the emitter knows nothing about
// semesters, weeks, or date arithmetic.
func Emit(events []model.Event, opt Options) string {
	tz := opt.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	tzid := &ical.KeyValues{Key: "TZID", Value: []string{tz}}

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(opt.Name)
	cal.SetXWRTimezone(tz)

	for _, ev := range events {
		e := cal.AddEvent(ev.UID)
		e.SetDtStampTime(opt.Now.UTC())
		e.SetProperty(ical.ComponentPropertySummary, escapeText(ev.Summary))
		if ev.Location != "" {
			e.SetProperty(ical.ComponentPropertyLocation, escapeText(ExpandLocation(ev.Location)))
		}

		if ev.AllDay {
			dateValue := &ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}}
			e.SetProperty(ical.ComponentPropertyDtStart, ev.Start.Format(layoutDate), tzid, dateValue)
			e.SetProperty(ical.ComponentPropertyDtEnd, ev.End.Format(layoutDate), tzid, dateValue)
		} else {
			e.SetProperty(ical.ComponentPropertyDtStart, ev.Start.Format(layoutDateTime), tzid)
			e.SetProperty(ical.ComponentPropertyDtEnd, ev.End.Format(layoutDateTime), tzid)
		}

		if ev.Recurring {
			// EXDATE values are local wall times matching DTSTART's form.
			if len(ev.ExDates) > 0 {
				stamps := make([]string, 0, len(ev.ExDates))
				for _, d := range ev.ExDates {
					stamps = append(stamps, d.Format(layoutDateTime))
				}
				e.SetProperty(ical.ComponentPropertyExdate, strings.Join(stamps, ","), tzid)
			}
			ropt := rrule.ROption{Freq: rrule.WEEKLY, Interval: ev.Interval, Until: ev.Until}
			e.AddRrule(ropt.RRuleString())
		}

		if ev.Description != "" {
			e.SetProperty(ical.ComponentPropertyDescription, escapeText(ev.Description))
		}
	}

	return cal.Serialize()
}

// ExpandLocation appends the known campus address for the location's venue
// code, if any.
func ExpandLocation(location string) string {
	rs := []rune(location)
	if len(rs) == 0 {
		return location
	}
	if addr, ok := venueAddresses[rs[0]]; ok {
		return location + addr
	}
	return location
}

// escapeText escapes TEXT property values per RFC 5545 §3.3.11.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// WriteFile writes the serialized calendar atomically: the document lands at
// path via a temp file + rename, so an aborted run never leaves a partial
// calendar behind.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("output path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".coursecal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
