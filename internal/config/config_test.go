package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWeekList_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  WeekList
	}{
		{"range scalar", "weeks: 1-16", WeekList{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		{"quoted range", `weeks: "3-5"`, WeekList{3, 4, 5}},
		{"single int", "weeks: 7", WeekList{7}},
		{"explicit list", "weeks: [1, 2, 4]", WeekList{1, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Weeks WeekList `yaml:"weeks"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &out))
			assert.Equal(t, tt.want, out.Weeks)
		})
	}
}

func TestWeekList_UnmarshalErrors(t *testing.T) {
	var out struct {
		Weeks WeekList `yaml:"weeks"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("weeks: 9-5"), &out), "descending range")
	assert.Error(t, yaml.Unmarshal([]byte("weeks: everyweek"), &out), "junk scalar")
	assert.Error(t, yaml.Unmarshal([]byte("weeks: {a: 1}"), &out), "mapping")
}

func TestClockTime_Parse(t *testing.T) {
	c, err := ParseClock("08:00")
	require.NoError(t, err)
	assert.Equal(t, NewClock(8, 0, 0), c)

	c, err = ParseClock("13:45:30")
	require.NoError(t, err)
	assert.Equal(t, NewClock(13, 45, 30), c)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestClockTime_On(t *testing.T) {
	d := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	got := NewClock(8, 55, 0).On(d)
	assert.Equal(t, time.Date(2024, time.September, 2, 8, 55, 0, 0, time.UTC), got)
}

func TestDate_Unmarshal(t *testing.T) {
	var out struct {
		Start Date `yaml:"start"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("start: 2024-09-02"), &out))
	assert.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC), out.Start.Time)

	assert.Error(t, yaml.Unmarshal([]byte("start: 02/09/2024"), &out))
}

const sampleDoc = `
name: graduate
periods:
  1: {start: "08:00", end: "08:45"}
  2: {start: "08:55", end: "09:40"}
semesters:
  - name: 2024-2025-1
    start: 2024-09-02
    lieux:
      - name: Handan
        venue: H
        holidays:
          - week: 8
            days: [1, 2, 3, 4, 5]
        courses:
          - from: {week: 7, day: 6}
            to: {week: 8, day: 1}
    courses:
      - id: MATH620007
        name: Algebra
        teacher: Zhang
        schedule:
          - weeks: 1-16
            day: 1
            periods: [1, 2]
            location: H3-101
          - weeks: 2-10
            day: 3
            periods: [1, 1]
            skip: 2
            location: J1-201
`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	doc, err := Load(writeDoc(t, sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "graduate", doc.Name)
	assert.Len(t, doc.Periods, 2)
	assert.Equal(t, NewClock(8, 55, 0), doc.Periods[2].Start)

	require.Len(t, doc.Semesters, 1)
	sem := doc.Semesters[0]
	assert.Equal(t, "2024-2025-1", sem.Name)
	assert.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC), sem.Start.Time)

	require.Len(t, sem.Lieux, 1)
	assert.Equal(t, "H", sem.Lieux[0].Venue)
	require.Len(t, sem.Lieux[0].Moves, 1)
	assert.Equal(t, Coordinate{Week: 7, Day: 6}, sem.Lieux[0].Moves[0].From)

	require.Len(t, sem.Courses, 1)
	course := sem.Courses[0]
	require.Len(t, course.Schedule, 2)
	assert.Len(t, course.Schedule[0].Weeks, 16)
	assert.Equal(t, 1, course.Schedule[0].Skip, "skip defaults to 1")
	assert.Equal(t, 2, course.Schedule[1].Skip)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Document)
		wantErr string
	}{
		{"missing name", func(d *Document) { d.Name = "" }, "missing name"},
		{"no periods", func(d *Document) { d.Periods = nil }, "no periods"},
		{
			"inverted period",
			func(d *Document) {
				d.Periods[1] = Period{Start: NewClock(9, 0, 0), End: NewClock(8, 0, 0)}
			},
			"not after",
		},
		{
			"missing course id",
			func(d *Document) { d.Semesters[0].Courses[0].ID = "" },
			"missing id",
		},
		{
			"unknown period index",
			func(d *Document) { d.Semesters[0].Courses[0].Schedule[0].Periods = []int{9} },
			"unknown period",
		},
		{
			"day below one",
			func(d *Document) { d.Semesters[0].Courses[0].Schedule[0].Day = 0 },
			"day must be",
		},
		{
			"missing location",
			func(d *Document) { d.Semesters[0].Courses[0].Schedule[0].Location = "" },
			"missing location",
		},
		{
			"descending holiday days",
			func(d *Document) { d.Semesters[0].Lieux[0].Holidays[0].Days = []int{3, 1} },
			"ascending",
		},
		{
			"zero move coordinate",
			func(d *Document) { d.Semesters[0].Lieux[0].Moves[0].To = Coordinate{} },
			"must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			require.NoError(t, yaml.Unmarshal([]byte(sampleDoc), &doc))
			doc.Normalize()
			tt.mutate(&doc)

			err := doc.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
