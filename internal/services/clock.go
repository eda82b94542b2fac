package services

import (
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
)

// Clock is the services' source of "now" and of the timezone that decides
// where one farm day ends and the next begins.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(location *time.Location) Clock {
	if location == nil {
		location = time.Local
	}
	return Clock{Now: time.Now, Location: location}
}

func (c Clock) now() time.Time {
	return c.Now().In(c.Location)
}

// Today is the local calendar date in the form date columns store it.
func (c Clock) Today() time.Time {
	return models.DateOf(c.now())
}

// DayBounds returns the instants local today starts and local tomorrow starts.
func (c Clock) DayBounds() (time.Time, time.Time) {
	now := c.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location)
	return start, start.AddDate(0, 0, 1)
}

// TomorrowAt is tomorrow's local date at hour:00.
func (c Clock) TomorrowAt(hour int) time.Time {
	now := c.now().AddDate(0, 0, 1)
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, c.Location)
}
