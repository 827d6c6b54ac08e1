package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Window is a shift's resolved start/end in the poster's local zone,
// plus the reminder instant sent to the claimant.
type Window struct {
	Start    time.Time
	End      time.Time
	RemindAt time.Time
}

// ResolveWindow combines a shift's date with its wall-clock start/end
// times. An end at or before the start rolls forward one day (overnight
// shift). The reminder fires one hour before the start.
func ResolveWindow(s *Shift) (Window, error) {
	if s == nil {
		return Window{}, ErrInvalidShift
	}
	date := strings.TrimSpace(s.Date)
	if date == "" || strings.TrimSpace(s.StartTime) == "" || strings.TrimSpace(s.EndTime) == "" {
		return Window{}, ErrInvalidShift
	}

	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return Window{}, ErrInvalidShift
	}
	start, err := atClock(day, s.StartTime)
	if err != nil {
		return Window{}, ErrInvalidShift
	}
	end, err := atClock(day, s.EndTime)
	if err != nil {
		return Window{}, ErrInvalidShift
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return Window{
		Start:    start,
		End:      end,
		RemindAt: start.Add(-1 * time.Hour),
	}, nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(clock), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// FormatClock renders "HH:MM" in 12-hour form, e.g. "18:30" -> "6:30 PM".
// Malformed input is returned unchanged so a bad row never blanks an SMS.
func FormatClock(clock string) string {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return clock
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return clock
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, period)
}

// FormatDate renders "2006-01-02" as "Monday, January 2, 2006".
func FormatDate(date string) string {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

// FormatRange renders a shift's start/end as "6:00 PM - 11:00 PM".
func FormatRange(s *Shift) string {
	return FormatClock(s.StartTime) + " - " + FormatClock(s.EndTime)
}
