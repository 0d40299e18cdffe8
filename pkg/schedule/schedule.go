package schedule

import (
	"time"

	"github.com/ritmo-app/ritmo/pkg/habit"
)

// Occurrence is a habit resolved for one calendar day: the effective
// definition with any override applied, plus the progress logged against it.
type Occurrence struct {
	Habit      habit.Habit
	Date       time.Time
	Overridden bool
	Progress   int
	Completed  bool
}

type DaySchedule struct {
	Date        time.Time
	Occurrences []Occurrence
}

type DayStats struct {
	Date      time.Time
	Scheduled int
	Completed int
}

type HabitStats struct {
	Habit     habit.Habit
	Scheduled int
	Completed int
	// Streak is the number of consecutive past occurrence days the habit
	// was completed on. An incomplete today leaves the streak intact.
	Streak int
}

type WeeklySummary struct {
	StartDate time.Time
	EndDate   time.Time
	Days      []DayStats
	Habits    []HabitStats
	Scheduled int
	Completed int
	// Streak counts consecutive past days on which every scheduled habit
	// was completed. Days with nothing scheduled are skipped.
	Streak         int
	CompletionRate float64
}
