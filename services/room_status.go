package services

import (
	"fmt"

	"booking-calendar/models"
)

// CellKind classifies one (room, date) cell of the calendar grid.
type CellKind int

const (
	CellAvailable CellKind = iota
	CellBooked
	CellTransition
	CellConflict
)

func (k CellKind) String() string {
	switch k {
	case CellAvailable:
		return "available"
	case CellBooked:
		return "booked"
	case CellTransition:
		return "transition"
	case CellConflict:
		return "conflict"
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

func (k CellKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// RoomStatus is the resolver's answer for one cell. Which fields are set
// depends on Kind:
//
//	Booked      ReservationID, GuestName, CheckIn, CheckOut, IsCheckInDay, IsCheckOutDay
//	Transition  OutgoingID, IncomingID, GuestName ("out → in")
//	Conflict    ConflictCount
type RoomStatus struct {
	Room string      `json:"room"`
	Date models.Date `json:"date"`
	Kind CellKind    `json:"status"`

	ReservationID models.ReservationID `json:"reservation_id,omitempty"`
	GuestName     string               `json:"guest_name,omitempty"`
	CheckIn       models.Date          `json:"check_in,omitempty"`
	CheckOut      models.Date          `json:"check_out,omitempty"`
	IsCheckInDay  bool                 `json:"is_check_in_day"`
	IsCheckOutDay bool                 `json:"is_check_out_day"`

	OutgoingID models.ReservationID `json:"outgoing_id,omitempty"`
	IncomingID models.ReservationID `json:"incoming_id,omitempty"`

	ConflictCount int `json:"conflict_count,omitempty"`
}

// ResolveRoomStatus classifies room on date against a snapshot of reservations.
// Deleted reservations never cover a cell.
func ResolveRoomStatus(room string, date models.Date, reservations []models.Reservation) RoomStatus {
	status := RoomStatus{Room: room, Date: date, Kind: CellAvailable}

	var covering []models.Reservation
	for _, r := range reservations {
		if r.Deleted || !r.Covers(room, date) {
			continue
		}
		covering = append(covering, r)
	}

	switch len(covering) {
	case 0:
		return status
	case 1:
		r := covering[0]
		status.Kind = CellBooked
		status.ReservationID = r.ID
		status.GuestName = r.ContactName
		status.CheckIn = r.CheckIn
		status.CheckOut = r.CheckOut
		status.IsCheckInDay = r.CheckIn.Equal(date)
		status.IsCheckOutDay = r.CheckOut.Equal(date)
		return status
	case 2:
		if out, in, ok := transitionPair(covering[0], covering[1], date); ok {
			status.Kind = CellTransition
			status.OutgoingID = out.ID
			status.IncomingID = in.ID
			status.GuestName = out.ContactName + " → " + in.ContactName
			status.CheckIn = in.CheckIn
			status.CheckOut = out.CheckOut
			status.IsCheckInDay = true
			status.IsCheckOutDay = true
			return status
		}
	}

	status.Kind = CellConflict
	status.ConflictCount = len(covering)
	status.GuestName = fmt.Sprintf("CONFLICT (%d)", len(covering))
	return status
}

// transitionPair matches a departing and an arriving reservation on date, in
// either argument order. When both orders fit (two one-day stays) the first
// argument is taken as outgoing.
func transitionPair(a, b models.Reservation, date models.Date) (out, in models.Reservation, ok bool) {
	if a.CheckOut.Equal(date) && b.CheckIn.Equal(date) {
		return a, b, true
	}
	if b.CheckOut.Equal(date) && a.CheckIn.Equal(date) {
		return b, a, true
	}
	return models.Reservation{}, models.Reservation{}, false
}
