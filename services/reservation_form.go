package services

import (
	"strings"

	"github.com/google/uuid"

	"booking-calendar/models"
)

// ReservationForm is the state of the reservation modal. Mode and
// ReservationID are fixed when the modal opens; the rest is user-editable.
type ReservationForm struct {
	Mode          ModalMode                `json:"mode"`
	ReservationID models.ReservationID     `json:"reservation_id,omitempty"`
	RoomNumber    string                   `json:"room_number"`
	CheckIn       models.Date              `json:"check_in_date"`
	CheckOut      models.Date              `json:"check_out_date"`
	Status        models.ReservationStatus `json:"status"`
	ContactName   string                   `json:"contact_name"`
	ContactLast   string                   `json:"contact_last_name"`
	ContactPhone  string                   `json:"contact_phone"`
	Notes         string                   `json:"notes"`
	Guests        []models.Guest           `json:"guests"`
	Error         string                   `json:"error,omitempty"`
}

// FormInput is what the user submits from the modal.
type FormInput struct {
	RoomNumber   string         `json:"room_number"`
	CheckIn      models.Date    `json:"check_in_date"`
	CheckOut     models.Date    `json:"check_out_date"`
	Status       string         `json:"status"`
	ContactName  string         `json:"contact_name"`
	ContactLast  string         `json:"contact_last_name"`
	ContactPhone string         `json:"contact_phone"`
	Notes        string         `json:"notes"`
	Guests       []models.Guest `json:"guests"`
}

// NewCreateForm opens an empty form for intent. Without a room in the intent
// the first room of the hotel is preselected.
func NewCreateForm(intent ModalIntent, rooms []models.Room) ReservationForm {
	room := intent.Room
	if room == "" && len(rooms) > 0 {
		room = rooms[0].Number
	}
	return ReservationForm{
		Mode:       ModalCreate,
		RoomNumber: room,
		CheckIn:    intent.CheckIn,
		CheckOut:   intent.CheckOut,
		Status:     models.StatusConfirmed,
		Guests:     []models.Guest{},
	}
}

func NewEditForm(r models.Reservation) ReservationForm {
	guests := append([]models.Guest{}, r.Guests...)
	return ReservationForm{
		Mode:          ModalEdit,
		ReservationID: r.ID,
		RoomNumber:    r.RoomNumber,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Status:        r.Status,
		ContactName:   r.ContactName,
		ContactLast:   r.ContactLastName,
		ContactPhone:  r.ContactPhone,
		Notes:         r.Notes,
		Guests:        guests,
	}
}

// Apply copies user input over the editable fields. Known statuses are
// canonicalised; anything else is sent as typed and the store decides.
func (f *ReservationForm) Apply(in FormInput) {
	if in.RoomNumber != "" {
		f.RoomNumber = in.RoomNumber
	}
	if !in.CheckIn.IsZero() {
		f.CheckIn = in.CheckIn
	}
	if !in.CheckOut.IsZero() {
		f.CheckOut = in.CheckOut
	}
	if st, err := models.ParseReservationStatus(in.Status); err == nil {
		f.Status = st
	} else if raw := strings.TrimSpace(in.Status); raw != "" {
		f.Status = models.ReservationStatus(raw)
	}
	f.ContactName = in.ContactName
	f.ContactLast = in.ContactLast
	f.ContactPhone = in.ContactPhone
	f.Notes = in.Notes
	f.Guests = in.Guests
}

// NewReservationID generates the id of a reservation created from the form.
func NewReservationID() models.ReservationID {
	return models.ReservationID("res_" + uuid.NewString())
}

// CreatePayload builds the store create body. Guests with both names blank are dropped.
func (f ReservationForm) CreatePayload(id models.ReservationID) models.ReservationPayload {
	return models.ReservationPayload{
		ReservationID:   string(id),
		RoomNumber:      f.RoomNumber,
		CheckInDate:     f.CheckIn.String(),
		CheckOutDate:    f.CheckOut.String(),
		Status:          string(f.Status),
		ContactName:     f.ContactName,
		ContactLastName: f.ContactLast,
		ContactPhone:    f.ContactPhone,
		Notes:           f.Notes,
		Guests:          models.NonBlankGuests(f.Guests),
	}
}

// UpdatePatch sends every editable field; the id travels in the URL.
func (f ReservationForm) UpdatePatch() models.ReservationPatch {
	checkIn, checkOut, status := f.CheckIn.String(), f.CheckOut.String(), string(f.Status)
	guests := models.NonBlankGuests(f.Guests)
	return models.ReservationPatch{
		RoomNumber:      &f.RoomNumber,
		CheckInDate:     &checkIn,
		CheckOutDate:    &checkOut,
		Status:          &status,
		ContactName:     &f.ContactName,
		ContactLastName: &f.ContactLast,
		ContactPhone:    &f.ContactPhone,
		Notes:           &f.Notes,
		Guests:          &guests,
	}
}

func (f ReservationForm) clone() ReservationForm {
	f.Guests = append([]models.Guest{}, f.Guests...)
	return f
}

// sameTarget reports whether o is the form for the same modal as f.
func (f ReservationForm) sameTarget(o ReservationForm) bool {
	return f.Mode == o.Mode && f.ReservationID == o.ReservationID
}
