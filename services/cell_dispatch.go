package services

import (
	"fmt"
	"strings"

	"booking-calendar/models"
)

// CellHalf is where inside a cell the user clicked. Split cells render two
// halves whose handlers stop propagation, so HalfWhole only reaches split
// cells when the click lands outside both halves.
type CellHalf int

const (
	HalfWhole CellHalf = iota
	HalfLeft
	HalfRight
)

func ParseCellHalf(s string) (CellHalf, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "whole", "cell":
		return HalfWhole, nil
	case "left":
		return HalfLeft, nil
	case "right":
		return HalfRight, nil
	}
	return HalfWhole, fmt.Errorf("unknown cell half %q", s)
}

func (h CellHalf) String() string {
	switch h {
	case HalfLeft:
		return "left"
	case HalfRight:
		return "right"
	}
	return "whole"
}

type ModalMode int

const (
	ModalCreate ModalMode = iota
	ModalEdit
)

func (m ModalMode) String() string {
	if m == ModalEdit {
		return "edit"
	}
	return "create"
}

func (m ModalMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ModalIntent says which form a click opens. Create intents carry the room
// and the proposed stay; edit intents carry the reservation to load.
type ModalIntent struct {
	Mode          ModalMode            `json:"mode"`
	Room          string               `json:"room"`
	CheckIn       models.Date          `json:"check_in"`
	CheckOut      models.Date          `json:"check_out"`
	ReservationID models.ReservationID `json:"reservation_id,omitempty"`
}

func createIntent(room string, checkIn, checkOut models.Date) ModalIntent {
	return ModalIntent{Mode: ModalCreate, Room: room, CheckIn: checkIn, CheckOut: checkOut}
}

func editIntent(room string, id models.ReservationID) ModalIntent {
	return ModalIntent{Mode: ModalEdit, Room: room, ReservationID: id}
}

// HalfState describes one half of a split cell for rendering.
type HalfState struct {
	Occupied bool   `json:"occupied"`
	Arrow    string `json:"arrow,omitempty"`
}

// CellLayout is how a cell is drawn: whole, or split into two halves.
type CellLayout struct {
	Split bool       `json:"split"`
	Left  *HalfState `json:"left,omitempty"`
	Right *HalfState `json:"right,omitempty"`
}

const (
	arrowCheckOut = "check-out"
	arrowCheckIn  = "check-in"
)

// LayoutFor returns the rendering layout matching DispatchClick's targets.
func LayoutFor(s RoomStatus) CellLayout {
	switch s.Kind {
	case CellTransition:
		return CellLayout{
			Split: true,
			Left:  &HalfState{Occupied: true, Arrow: arrowCheckOut},
			Right: &HalfState{Occupied: true, Arrow: arrowCheckIn},
		}
	case CellBooked:
		switch {
		case s.IsCheckOutDay && !s.IsCheckInDay:
			return CellLayout{
				Split: true,
				Left:  &HalfState{Occupied: true, Arrow: arrowCheckOut},
				Right: &HalfState{},
			}
		case s.IsCheckInDay && !s.IsCheckOutDay:
			return CellLayout{
				Split: true,
				Left:  &HalfState{},
				Right: &HalfState{Occupied: true, Arrow: arrowCheckIn},
			}
		}
	}
	return CellLayout{}
}

// DispatchClick maps a click on a resolved cell to the modal it opens. The
// second result is false when the click does nothing (conflict cells).
func DispatchClick(s RoomStatus, half CellHalf) (ModalIntent, bool) {
	switch s.Kind {
	case CellAvailable:
		return createIntent(s.Room, s.Date, s.Date.AddDays(1)), true

	case CellBooked:
		switch {
		case s.IsCheckOutDay && !s.IsCheckInDay && half == HalfRight:
			// free afternoon: a new stay starting today
			return createIntent(s.Room, s.Date, s.Date.AddDays(1)), true
		case s.IsCheckInDay && !s.IsCheckOutDay && half == HalfLeft:
			// free morning: a new stay ending today
			return createIntent(s.Room, s.Date.AddDays(-1), s.Date), true
		}
		return editIntent(s.Room, s.ReservationID), true

	case CellTransition:
		if half == HalfRight {
			return editIntent(s.Room, s.IncomingID), true
		}
		return editIntent(s.Room, s.OutgoingID), true

	case CellConflict:
		return ModalIntent{}, false
	}
	return ModalIntent{}, false
}
