package habit

import (
	"slices"
	"time"

	"github.com/ritmo-app/ritmo/internal/utils"
)

// OccursOn reports whether the habit is due on the given calendar day.
//
// One-time habits match only their start date, regardless of end date. For
// recurring habits the day has to fall inside [StartDate, EndDate] (a nil
// EndDate means open-ended), and then pass the frequency check:
//
//   - week:  the weekday is enabled and the whole-calendar-week distance from
//     the start (weeks starting on Sunday) is a multiple of RepeatEvery
//   - month: the calendar-month distance is a multiple of RepeatEvery and the
//     day of month equals the start's day of month
//   - year:  the calendar-year distance is a multiple of RepeatEvery and
//     month and day equal the start's
//   - day:   every day within range
//
// Monthly rules use exact day-of-month equality with no end-of-month
// clamping: a rule starting Jan 31 produces nothing in February. That
// matches the product behavior for such rules, skipped months included.
func (h Habit) OccursOn(day time.Time) bool {
	day = utils.ToDate(day)
	start := utils.ToDate(h.StartDate)

	if h.IsOneTime() {
		return day.Equal(start)
	}

	if day.Before(start) {
		return false
	}
	if h.EndDate != nil && day.After(utils.ToDate(*h.EndDate)) {
		return false
	}

	switch h.Frequency {
	case FrequencyWeek:
		if !slices.Contains(h.RepeatDays, int(day.Weekday())) {
			return false
		}
		return utils.CalendarWeeksBetween(start, day)%h.RepeatEvery == 0
	case FrequencyMonth:
		if day.Day() != start.Day() {
			return false
		}
		return utils.CalendarMonthsBetween(start, day)%h.RepeatEvery == 0
	case FrequencyYear:
		if day.Month() != start.Month() || day.Day() != start.Day() {
			return false
		}
		return utils.CalendarYearsBetween(start, day)%h.RepeatEvery == 0
	default:
		// Recurring daily habits occur on every day within range.
		return true
	}
}
