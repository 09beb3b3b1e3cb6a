package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDate parses a YYYY-MM-DD calendar date. Out of range values such as
// 2025-02-30 are rejected.
func ParseDate(value string) (time.Time, error) {
	if !dateRe.MatchString(value) {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", value)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not a calendar date", value)
	}
	return t, nil
}

// ParseClock returns minutes after midnight for an HH:MM value.
func ParseClock(value string) (int, error) {
	m := clockRe.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("time %q must be HH:MM", value)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(value string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(value))]
	return day, ok
}

func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
