package user

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Timezone is an IANA zone name, used when exporting timed occurrences.
	Timezone string
	// WeekFirstDay controls which day calendar views start on. Recurrence
	// matching always uses Sunday-based weeks, independent of this setting.
	WeekFirstDay time.Weekday
}
