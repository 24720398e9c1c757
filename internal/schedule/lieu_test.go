package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecal/internal/config"
)

func TestBuildLieu_HolidayDates(t *testing.T) {
	start := date(2024, time.September, 2)
	lieu := config.Lieu{
		Name: "Handan",
		Holidays: []config.HolidayBlock{
			{Week: 8, Days: []int{1, 2, 3, 4, 5}},
		},
	}

	lc := BuildLieu(lieu, start)

	assert.Len(t, lc.HolidayDates, 5)
	assert.True(t, lc.HolidayDates[date(2024, time.October, 21)])
	assert.True(t, lc.HolidayDates[date(2024, time.October, 25)])
	assert.False(t, lc.HolidayDates[date(2024, time.October, 26)])

	require.Len(t, lc.HolidaySpans, 1)
	assert.Equal(t, date(2024, time.October, 21), lc.HolidaySpans[0].First)
	// End is the day after the last blocked day (exclusive all-day bound).
	assert.Equal(t, date(2024, time.October, 26), lc.HolidaySpans[0].End)
}

func TestBuildLieu_Moves(t *testing.T) {
	start := date(2024, time.September, 2)
	lieu := config.Lieu{
		Name: "Handan",
		Moves: []config.MakeUpMove{
			{From: config.Coordinate{Week: 7, Day: 6}, To: config.Coordinate{Week: 8, Day: 1}},
		},
	}

	lc := BuildLieu(lieu, start)

	require.Len(t, lc.Moves, 1)
	assert.Equal(t, date(2024, time.October, 19), lc.Moves[0].From)
	assert.Equal(t, date(2024, time.October, 21), lc.Moves[0].To)
}

func TestLieuCalendar_AppliesTo(t *testing.T) {
	tests := []struct {
		name     string
		venue    string
		location string
		want     bool
	}{
		{"no venue applies everywhere", "", "J1-201", true},
		{"matching code", "H", "H3-101", true},
		{"mismatched code", "H", "J1-201", false},
		{"empty location never matches a coded lieu", "H", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := LieuCalendar{Venue: tt.venue}
			assert.Equal(t, tt.want, lc.AppliesTo(tt.location))
		})
	}
}
