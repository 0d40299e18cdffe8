package habit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrEmptyName     = errors.New("habit name must not be empty")
)

type Frequency string

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
	FrequencyYear  Frequency = "year"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyYear:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown repeat frequency %q", s)
}

// Habit is a recurring (or one-time) habit definition.
type Habit struct {
	Id         string
	Name       string
	Icon       string
	Color      string
	GoalAmount int
	GoalUnit   string
	IsAllDay   bool
	// StartTime and EndTime are "HH:MM" strings, set only when IsAllDay is false.
	StartTime string
	EndTime   string
	// StartDate is the rule's activation day; no occurrence is produced before it.
	StartDate time.Time
	// EndDate is the last day an occurrence may be produced. Nil means the
	// rule is open-ended.
	EndDate *time.Time
	Frequency Frequency
	// RepeatEvery is the interval multiplier, e.g. every 2 weeks. Always >= 1.
	RepeatEvery int
	// RepeatDays holds weekday indices 0-6 (0 = Sunday), meaningful only for
	// weekly habits.
	RepeatDays []int
}

// IsOneTime reports whether the habit is a single-occurrence event: a daily
// rule with no interval and no weekday selection occurs only on its start date.
func (h Habit) IsOneTime() bool {
	return h.Frequency == FrequencyDay && h.RepeatEvery == 1 && len(h.RepeatDays) == 0
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks a habit definition before it is persisted. Validation
// happens before any write, so an invalid form never leaves partial state.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if h.GoalAmount <= 0 {
		return errors.New("goal amount must be positive")
	}
	if h.RepeatEvery < 1 {
		return errors.New("repeat interval must be at least 1")
	}
	if _, err := ParseFrequency(string(h.Frequency)); err != nil {
		return err
	}
	if h.Icon != "" && !IsSupportedIcon(h.Icon) {
		return fmt.Errorf("unsupported icon %q", h.Icon)
	}
	for _, day := range h.RepeatDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("invalid weekday index %d", day)
		}
	}
	if !h.IsAllDay {
		if !timeOfDayPattern.MatchString(h.StartTime) || !timeOfDayPattern.MatchString(h.EndTime) {
			return errors.New("start and end time must be HH:MM for timed habits")
		}
	}
	if h.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	return nil
}
