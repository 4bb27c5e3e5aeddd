package models

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusPending   ReservationStatus = "Pending"
	StatusCancelled ReservationStatus = "Cancelled"
)

var reservationStatuses = []ReservationStatus{StatusConfirmed, StatusPending, StatusCancelled}

// ParseReservationStatus is case-insensitive and returns the canonical spelling.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range reservationStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

type Guest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (g Guest) Blank() bool {
	return strings.TrimSpace(g.FirstName) == "" && strings.TrimSpace(g.LastName) == ""
}

// Reservation is the decoded form of a store record. CheckIn <= CheckOut and
// both days are occupied for the purpose of the calendar.
type Reservation struct {
	ID              ReservationID
	HotelID         HotelID
	RoomNumber      string
	CheckIn         Date
	CheckOut        Date
	Status          ReservationStatus
	ContactName     string
	ContactLastName string
	ContactPhone    string
	Notes           string
	Guests          []Guest

	Deleted   bool
	DeletedBy string
	DeletedOn Date

	CreatedBy  string
	ModifiedBy string
	CreatedOn  time.Time
	ModifiedOn time.Time
}

// Covers reports whether r occupies room on day d (inclusive on both ends).
func (r Reservation) Covers(room string, d Date) bool {
	return r.RoomNumber == room && d.Within(r.CheckIn, r.CheckOut)
}

// Overlaps reports whether r and o share a night on the same room. Sharing
// only a boundary day (one leaves, the other arrives) is not an overlap.
func (r Reservation) Overlaps(o Reservation) bool {
	return r.RoomNumber == o.RoomNumber && r.CheckIn.Before(o.CheckOut) && r.CheckOut.After(o.CheckIn)
}

// ReservationPayload is the create body accepted by the store.
type ReservationPayload struct {
	ReservationID   string  `json:"reservation_id"`
	RoomNumber      string  `json:"room_number" binding:"required"`
	CheckInDate     string  `json:"check_in_date" binding:"required,isodate"`
	CheckOutDate    string  `json:"check_out_date" binding:"required,isodate"`
	Status          string  `json:"status"`
	ContactName     string  `json:"contact_name"`
	ContactLastName string  `json:"contact_last_name"`
	ContactPhone    string  `json:"contact_phone"`
	Notes           string  `json:"notes"`
	Guests          []Guest `json:"guests"`
}

// ReservationPatch is the partial update body; nil fields are left untouched.
type ReservationPatch struct {
	RoomNumber      *string  `json:"room_number,omitempty"`
	CheckInDate     *string  `json:"check_in_date,omitempty" binding:"omitempty,isodate"`
	CheckOutDate    *string  `json:"check_out_date,omitempty" binding:"omitempty,isodate"`
	Status          *string  `json:"status,omitempty"`
	ContactName     *string  `json:"contact_name,omitempty"`
	ContactLastName *string  `json:"contact_last_name,omitempty"`
	ContactPhone    *string  `json:"contact_phone,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	Guests          *[]Guest `json:"guests,omitempty"`
}

// TouchesSchedule reports whether applying p can move the reservation in the grid.
func (p ReservationPatch) TouchesSchedule() bool {
	return p.RoomNumber != nil || p.CheckInDate != nil || p.CheckOutDate != nil
}

func (p ReservationPatch) Empty() bool {
	return !p.TouchesSchedule() && p.Status == nil && p.ContactName == nil && p.ContactLastName == nil &&
		p.ContactPhone == nil && p.Notes == nil && p.Guests == nil
}

// NonBlankGuests drops rows where both names are empty.
func NonBlankGuests(guests []Guest) []Guest {
	out := make([]Guest, 0, len(guests))
	for _, g := range guests {
		if g.Blank() {
			continue
		}
		out = append(out, Guest{FirstName: strings.TrimSpace(g.FirstName), LastName: strings.TrimSpace(g.LastName)})
	}
	return out
}
