package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type WeekRenderer interface {
	RenderWeek(summary WeeklySummary, days []DaySchedule) (string, error)
}

// CsvWeekRendererImpl renders a resolved week as a CSV grid: one column per
// habit seen in the week, one row per day, completion totals at the bottom.
type CsvWeekRendererImpl struct {
}

func NewCsvWeekRenderer() *CsvWeekRendererImpl {
	return &CsvWeekRendererImpl{}
}

func (t *CsvWeekRendererImpl) RenderWeek(summary WeeklySummary, days []DaySchedule) (string, error) {
	habitNames := make([]string, 0, len(summary.Habits)+2)
	habitNames = append(habitNames, "")
	habitIds := make([]string, 0, len(summary.Habits))
	for _, habitStats := range summary.Habits {
		habitNames = append(habitNames, habitStats.Habit.Name)
		habitIds = append(habitIds, habitStats.Habit.Id)
	}
	habitNames = append(habitNames, "SUM")

	rowsByDay := make([][]string, 0, len(days))
	for _, day := range days {
		rowsByDay = append(rowsByDay, getRowForDay(day, habitIds))
	}

	totals := make([]string, 0, len(summary.Habits)+2)
	totals = append(totals, "Total")
	for _, habitStats := range summary.Habits {
		totals = append(totals, fmt.Sprintf("%d/%d", habitStats.Completed, habitStats.Scheduled))
	}
	totals = append(totals, fmt.Sprintf("%d/%d", summary.Completed, summary.Scheduled))

	streaks := make([]string, 0, len(summary.Habits)+2)
	streaks = append(streaks, "Streak")
	for _, habitStats := range summary.Habits {
		streaks = append(streaks, strconv.Itoa(habitStats.Streak))
	}
	streaks = append(streaks, strconv.Itoa(summary.Streak))

	data := make([][]string, 0, 1+len(rowsByDay)+2)
	data = append(data, habitNames)
	data = append(data, rowsByDay...)
	data = append(data, totals, streaks)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func getRowForDay(day DaySchedule, habitIds []string) []string {
	byHabitId := make(map[string]Occurrence, len(day.Occurrences))
	for _, occurrence := range day.Occurrences {
		byHabitId[occurrence.Habit.Id] = occurrence
	}

	completed := 0
	row := make([]string, 0, len(habitIds)+2)
	row = append(row, day.Date.Format("02/01/2006"))
	for _, habitId := range habitIds {
		occurrence, ok := byHabitId[habitId]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, fmt.Sprintf("%d/%d", occurrence.Progress, occurrence.Habit.GoalAmount))
		if occurrence.Completed {
			completed++
		}
	}
	row = append(row, fmt.Sprintf("%d/%d", completed, len(day.Occurrences)))
	return row
}
