package exception

import (
	"time"

	"github.com/ritmo-app/ritmo/pkg/habit"
)

// Override holds per-date replacements for a habit's display fields. Only
// non-nil fields replace the base definition; the recurrence rule itself is
// never overridable.
type Override struct {
	HabitId    string
	Date       time.Time
	Name       *string
	Icon       *string
	Color      *string
	GoalAmount *int
	GoalUnit   *string
	IsAllDay   *bool
	StartTime  *string
	EndTime    *string
}

// IsEmpty reports whether the override changes nothing.
func (o Override) IsEmpty() bool {
	return o.Name == nil && o.Icon == nil && o.Color == nil && o.GoalAmount == nil &&
		o.GoalUnit == nil && o.IsAllDay == nil && o.StartTime == nil && o.EndTime == nil
}

// ApplyTo merges the override into a habit definition, field by field. The
// base habit is not modified.
func (o Override) ApplyTo(h habit.Habit) habit.Habit {
	if o.Name != nil {
		h.Name = *o.Name
	}
	if o.Icon != nil {
		h.Icon = *o.Icon
	}
	if o.Color != nil {
		h.Color = *o.Color
	}
	if o.GoalAmount != nil {
		h.GoalAmount = *o.GoalAmount
	}
	if o.GoalUnit != nil {
		h.GoalUnit = *o.GoalUnit
	}
	if o.IsAllDay != nil {
		h.IsAllDay = *o.IsAllDay
	}
	if o.StartTime != nil {
		h.StartTime = *o.StartTime
	}
	if o.EndTime != nil {
		h.EndTime = *o.EndTime
	}
	if h.IsAllDay {
		h.StartTime = ""
		h.EndTime = ""
	}
	return h
}
