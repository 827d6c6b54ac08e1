package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	s := &Shift{Type: TypeCustom, Date: "2024-06-01", StartTime: "18:00", EndTime: "23:00"}

	w, err := ResolveWindow(s)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 18, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2024, 6, 1, 23, 0, 0, 0, time.Local), w.End)
	assert.Equal(t, w.Start.Add(-1*time.Hour), w.RemindAt)
}

func TestResolveWindowOvernight(t *testing.T) {
	s := &Shift{Type: TypeNight, Date: "2024-06-01", StartTime: "22:00", EndTime: "02:00"}

	w, err := ResolveWindow(s)
	require.NoError(t, err)

	// end rolls to the next calendar day
	assert.Equal(t, time.Date(2024, 6, 2, 2, 0, 0, 0, time.Local), w.End)
	assert.True(t, w.End.After(w.Start))
	assert.Equal(t, time.Date(2024, 6, 1, 21, 0, 0, 0, time.Local), w.RemindAt)
}

func TestResolveWindowEqualTimesRollsOver(t *testing.T) {
	s := &Shift{Date: "2024-06-01", StartTime: "09:00", EndTime: "09:00"}

	w, err := ResolveWindow(s)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestResolveWindowInvalid(t *testing.T) {
	cases := []struct {
		name string
		s    *Shift
	}{
		{"nil shift", nil},
		{"missing date", &Shift{StartTime: "09:00", EndTime: "17:00"}},
		{"missing start", &Shift{Date: "2024-06-01", EndTime: "17:00"}},
		{"missing end", &Shift{Date: "2024-06-01", StartTime: "09:00"}},
		{"bad date", &Shift{Date: "June 1", StartTime: "09:00", EndTime: "17:00"}},
		{"bad start", &Shift{Date: "2024-06-01", StartTime: "9am", EndTime: "17:00"}},
		{"bad end", &Shift{Date: "2024-06-01", StartTime: "09:00", EndTime: "25:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveWindow(tc.s)
			assert.ErrorIs(t, err, ErrInvalidShift)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "6:00 PM", FormatClock("18:00"))
	assert.Equal(t, "12:30 AM", FormatClock("00:30"))
	assert.Equal(t, "12:00 PM", FormatClock("12:00"))
	assert.Equal(t, "9:05 AM", FormatClock("09:05"))
	assert.Equal(t, "11:59 PM", FormatClock("23:59"))

	// malformed input passes through untouched
	assert.Equal(t, "garbage", FormatClock("garbage"))
	assert.Equal(t, "25:00", FormatClock("25:00"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Saturday, June 1, 2024", FormatDate("2024-06-01"))
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
}

func TestFormatRange(t *testing.T) {
	s := &Shift{StartTime: "18:00", EndTime: "23:00"}
	assert.Equal(t, "6:00 PM - 11:00 PM", FormatRange(s))
}
