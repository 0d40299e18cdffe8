package progress

import "time"

// Record is the amount logged against one habit occurrence. Occurrences
// without a record have an implicit amount of zero.
type Record struct {
	HabitId string
	Date    time.Time
	Amount  int
}
