package models

import (
	"fmt"
	"time"
)

// Wire records exchanged with the reservation store. Field names follow the
// store's single-table item layout.

const (
	entityCompany     = "Company"
	entityLocation    = "Location"
	entityRoom        = "Room"
	entityReservation = "Reservation"
	metadataSortKey   = "METADATA"
)

type CompanyRecord struct {
	PK         string `json:"PK"`
	SK         string `json:"SK"`
	EntityType string `json:"EntityType"`
	Name       string `json:"Name"`
}

type HotelRecord struct {
	PK         string `json:"PK"`
	SK         string `json:"SK"`
	EntityType string `json:"EntityType"`
	Name       string `json:"Name"`
	CompanyID  string `json:"CompanyId"`
	SortNumber int    `json:"sort_number"`
}

type RoomRecord struct {
	PK         string `json:"PK"`
	SK         string `json:"SK"`
	EntityType string `json:"EntityType"`
	LocationID string `json:"LocationId"`
	Type       string `json:"Type"`
	Number     string `json:"Number"`
	Note       string `json:"Note"`
	IsActive   bool   `json:"IsActive"`
}

type ReservationRecord struct {
	PK              string  `json:"PK"`
	SK              string  `json:"SK"`
	EntityType      string  `json:"EntityType"`
	HotelID         string  `json:"HotelId"`
	RoomID          string  `json:"RoomId"`
	CheckInDate     Date    `json:"CheckInDate"`
	CheckOutDate    Date    `json:"CheckOutDate"`
	Status          string  `json:"Status"`
	ContactName     string  `json:"ContactName"`
	ContactLastName string  `json:"ContactLastName"`
	ContactPhone    string  `json:"ContactPhone"`
	Notes           string  `json:"Notes"`
	UserID          string  `json:"UserId"`
	ModifiedBy      string  `json:"ModifiedBy"`
	CreatedOn       string  `json:"CreatedOn"`
	ModifiedOn      string  `json:"ModifiedOn"`
	IsDeleted       bool    `json:"IsDeleted"`
	DeletedOn       *Date   `json:"DeletedOn,omitempty"`
	DeletedBy       string  `json:"DeletedBy,omitempty"`
	Guests          []Guest `json:"Guests"`
}

func NewCompanyRecord(c Company) CompanyRecord {
	return CompanyRecord{PK: c.ID.Key(), SK: metadataSortKey, EntityType: entityCompany, Name: c.Name}
}

func (r CompanyRecord) Decode() (Company, error) {
	id, err := ParseCompanyKey(r.PK)
	if err != nil {
		return Company{}, err
	}
	return Company{ID: id, Name: r.Name}, nil
}

func NewHotelRecord(h Hotel) HotelRecord {
	return HotelRecord{
		PK:         h.ID.Key(),
		SK:         metadataSortKey,
		EntityType: entityLocation,
		Name:       h.Name,
		CompanyID:  string(h.CompanyID),
		SortNumber: h.SortNumber,
	}
}

func (r HotelRecord) Decode() (Hotel, error) {
	id, err := ParseHotelKey(r.PK)
	if err != nil {
		return Hotel{}, err
	}
	return Hotel{ID: id, CompanyID: CompanyID(r.CompanyID), Name: r.Name, SortNumber: r.SortNumber}, nil
}

func NewRoomRecord(r Room) RoomRecord {
	return RoomRecord{
		PK:         r.ID.Key(),
		SK:         metadataSortKey,
		EntityType: entityRoom,
		LocationID: string(r.HotelID),
		Type:       r.Type,
		Number:     r.Number,
		Note:       r.Note,
		IsActive:   r.IsActive,
	}
}

func (r RoomRecord) Decode() (Room, error) {
	id, err := ParseRoomKey(r.PK)
	if err != nil {
		return Room{}, err
	}
	return Room{
		ID:       id,
		HotelID:  HotelID(r.LocationID),
		Number:   r.Number,
		Type:     r.Type,
		Note:     r.Note,
		IsActive: r.IsActive,
	}, nil
}

func NewReservationRecord(r Reservation) ReservationRecord {
	rec := ReservationRecord{
		PK:              r.ID.Key(),
		SK:              metadataSortKey,
		EntityType:      entityReservation,
		HotelID:         string(r.HotelID),
		RoomID:          r.RoomNumber,
		CheckInDate:     r.CheckIn,
		CheckOutDate:    r.CheckOut,
		Status:          string(r.Status),
		ContactName:     r.ContactName,
		ContactLastName: r.ContactLastName,
		ContactPhone:    r.ContactPhone,
		Notes:           r.Notes,
		UserID:          r.CreatedBy,
		ModifiedBy:      r.ModifiedBy,
		CreatedOn:       formatTimestamp(r.CreatedOn),
		ModifiedOn:      formatTimestamp(r.ModifiedOn),
		IsDeleted:       r.Deleted,
		DeletedBy:       r.DeletedBy,
		Guests:          r.Guests,
	}
	if rec.Guests == nil {
		rec.Guests = []Guest{}
	}
	if r.Deleted && !r.DeletedOn.IsZero() {
		on := r.DeletedOn
		rec.DeletedOn = &on
	}
	return rec
}

// Decode validates the record and converts it to the domain form.
func (r ReservationRecord) Decode() (Reservation, error) {
	id, err := ParseReservationKey(r.PK)
	if err != nil {
		return Reservation{}, err
	}
	if r.CheckInDate.IsZero() || r.CheckOutDate.IsZero() {
		return Reservation{}, fmt.Errorf("reservation %s: missing dates", id)
	}
	if r.CheckOutDate.Before(r.CheckInDate) {
		return Reservation{}, fmt.Errorf("reservation %s: check-out %s before check-in %s", id, r.CheckOutDate, r.CheckInDate)
	}
	status, err := ParseReservationStatus(r.Status)
	if err != nil {
		// older items carry free-text statuses; keep them visible as pending
		status = StatusPending
	}
	res := Reservation{
		ID:              id,
		HotelID:         HotelID(r.HotelID),
		RoomNumber:      r.RoomID,
		CheckIn:         r.CheckInDate,
		CheckOut:        r.CheckOutDate,
		Status:          status,
		ContactName:     r.ContactName,
		ContactLastName: r.ContactLastName,
		ContactPhone:    r.ContactPhone,
		Notes:           r.Notes,
		Guests:          r.Guests,
		Deleted:         r.IsDeleted,
		DeletedBy:       r.DeletedBy,
		CreatedBy:       r.UserID,
		ModifiedBy:      r.ModifiedBy,
		CreatedOn:       parseTimestamp(r.CreatedOn),
		ModifiedOn:      parseTimestamp(r.ModifiedOn),
	}
	if r.DeletedOn != nil {
		res.DeletedOn = *r.DeletedOn
	}
	return res, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
