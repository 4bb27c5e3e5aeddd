package services

import "booking-calendar/models"

const (
	// RoomListWidth is the fixed width in pixels of the room column left of the grid.
	RoomListWidth = 250
	// MinCellWidth is the narrowest a day column may render.
	MinCellWidth = 80
	MaxDaysShown = 30
	// DefaultDaysShown is used before the client has reported a viewport width.
	DefaultDaysShown = 7
)

// DaysToShow is clamp(floor((gridWidth-RoomListWidth)/MinCellWidth), 1, 30).
// A width <= 0 means "unknown" and yields DefaultDaysShown.
func DaysToShow(gridWidth int) int {
	if gridWidth <= 0 {
		return DefaultDaysShown
	}
	available := gridWidth - RoomListWidth
	if available < MinCellWidth {
		return 1
	}
	days := available / MinCellWidth
	if days > MaxDaysShown {
		return MaxDaysShown
	}
	return days
}

// DateRange returns days consecutive dates starting at ref.
func DateRange(ref models.Date, days int) []models.Date {
	if days < 1 {
		days = 1
	}
	out := make([]models.Date, days)
	for i := range out {
		out[i] = ref.AddDays(i)
	}
	return out
}

// LoadWindow is the inclusive reservation window fetched for a view starting
// at ref: the whole month of ref, extended to the last visible day when the
// view runs into the next month.
func LoadWindow(ref models.Date, days int) (start, end models.Date) {
	start = ref.StartOfMonth()
	end = ref.EndOfMonth()
	if last := ref.AddDays(days - 1); last.After(end) {
		end = last
	}
	return start, end
}
