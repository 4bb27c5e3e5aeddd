package services

import (
	"time"

	"booking-calendar/models"
)

// Clock allows injecting "today" into services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

type fixedClock struct{ now time.Time }

// NewFixedClock always returns t. Useful for tests.
func NewFixedClock(t time.Time) Clock { return fixedClock{now: t} }

func (c fixedClock) Now() time.Time { return c.now }

func today(c Clock) models.Date { return models.DateOf(c.Now()) }
