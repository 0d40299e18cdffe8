package event_bus

const (
	// HabitDeletedEvent is published right before a habit definition is
	// removed. Subscribers purge dependent records (progress first, then
	// exceptions); the habit row itself is deleted by the publisher after
	// all handlers ran.
	HabitDeletedEvent EventType = "habit.deleted"

	// HabitSeriesSplitEvent is published after a recurring habit was split
	// into a truncated original and a new continuation rule.
	HabitSeriesSplitEvent EventType = "habit.series_split"
)

type HabitDeleted struct {
	HabitId string
}

type HabitSeriesSplit struct {
	OriginalHabitId string
	NewHabitId      string
}
