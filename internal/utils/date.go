package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a normalized calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ToDate truncates a time to its calendar day (midnight UTC). All date
// comparisons in the application happen at calendar-day granularity.
func ToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return ToDate(a).Equal(ToDate(b))
}

// StartOfWeek returns the Sunday starting the calendar week of t.
func StartOfWeek(t time.Time) time.Time {
	d := ToDate(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DaysBetween returns the number of calendar days from one day to the other.
func DaysBetween(from, to time.Time) int {
	return int(ToDate(to).Sub(ToDate(from)).Hours() / 24)
}

// CalendarWeeksBetween returns the number of whole calendar weeks between two
// days, with the week starting on Sunday. Two days in the same Sunday-based
// week are 0 weeks apart regardless of the day distance between them.
func CalendarWeeksBetween(from, to time.Time) int {
	return DaysBetween(StartOfWeek(from), StartOfWeek(to)) / 7
}

// CalendarMonthsBetween returns the number of calendar months between two
// days, ignoring the day of month.
func CalendarMonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// CalendarYearsBetween returns the number of calendar years between two days,
// ignoring month and day.
func CalendarYearsBetween(from, to time.Time) int {
	return to.Year() - from.Year()
}
