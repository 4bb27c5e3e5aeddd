package models

import (
	"fmt"
	"strconv"
)

type Company struct {
	ID   CompanyID
	Name string
}

type Hotel struct {
	ID         HotelID
	CompanyID  CompanyID
	Name       string
	SortNumber int
}

// Room is immutable for the lifetime of a calendar view. Reservations refer
// to rooms by Number, not by ID.
type Room struct {
	ID       RoomID
	HotelID  HotelID
	Number   string
	Type     string
	Note     string
	IsActive bool
}

// FloorLabel renders "<number> [спрат N - 1/4]" for rooms 100..499 and the
// ground-floor label for everything else.
func (r Room) FloorLabel() string {
	floor, level := "приземје", 0
	if n, err := strconv.Atoi(r.Number); err == nil && n >= 100 && n < 500 {
		floor, level = "спрат", n/100
	}
	return fmt.Sprintf("%s [%s %d - 1/4]", r.Number, floor, level)
}
