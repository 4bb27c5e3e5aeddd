package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// gorm entities backing the reservation store.

type CompanyEntity struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CompanyEntity) TableName() string { return "companies" }

func (e CompanyEntity) Company() Company {
	return Company{ID: CompanyID(e.ID), Name: e.Name}
}

type HotelEntity struct {
	ID         string `gorm:"primaryKey;size:64"`
	CompanyID  string `gorm:"size:64;index"`
	Name       string `gorm:"size:255"`
	SortNumber int    `gorm:"column:sort_number;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (HotelEntity) TableName() string { return "hotels" }

func (e HotelEntity) Hotel() Hotel {
	return Hotel{ID: HotelID(e.ID), CompanyID: CompanyID(e.CompanyID), Name: e.Name, SortNumber: e.SortNumber}
}

type RoomEntity struct {
	ID        string `gorm:"primaryKey;size:64"`
	HotelID   string `gorm:"size:64;uniqueIndex:idx_room_hotel_number"`
	Number    string `gorm:"size:16;uniqueIndex:idx_room_hotel_number"`
	Type      string `gorm:"size:64"`
	Note      string `gorm:"type:text"`
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoomEntity) TableName() string { return "rooms" }

func (e RoomEntity) Room() Room {
	return Room{
		ID:       RoomID(e.ID),
		HotelID:  HotelID(e.HotelID),
		Number:   e.Number,
		Type:     e.Type,
		Note:     e.Note,
		IsActive: e.IsActive,
	}
}

type ReservationEntity struct {
	ID              string         `gorm:"primaryKey;size:64"`
	HotelID         string         `gorm:"size:64;index:idx_reservation_room"`
	RoomNumber      string         `gorm:"size:16;index:idx_reservation_room"`
	CheckInDate     Date           `gorm:"type:varchar(10);index"`
	CheckOutDate    Date           `gorm:"type:varchar(10);index"`
	Status          string         `gorm:"size:32"`
	ContactName     string         `gorm:"size:255"`
	ContactLastName string         `gorm:"size:255"`
	ContactPhone    string         `gorm:"size:64"`
	Notes           string         `gorm:"type:text"`
	Guests          datatypes.JSON `gorm:"column:guests"`
	CreatedBy       string         `gorm:"size:128"`
	ModifiedBy      string         `gorm:"size:128"`
	IsDeleted       bool           `gorm:"index"`
	DeletedOn       Date           `gorm:"type:varchar(10);index"`
	DeletedBy       string         `gorm:"size:128"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ReservationEntity) TableName() string { return "reservations" }

func NewReservationEntity(r Reservation) (ReservationEntity, error) {
	guests := r.Guests
	if guests == nil {
		guests = []Guest{}
	}
	raw, err := json.Marshal(guests)
	if err != nil {
		return ReservationEntity{}, fmt.Errorf("encode guests: %w", err)
	}
	return ReservationEntity{
		ID:              string(r.ID),
		HotelID:         string(r.HotelID),
		RoomNumber:      r.RoomNumber,
		CheckInDate:     r.CheckIn,
		CheckOutDate:    r.CheckOut,
		Status:          string(r.Status),
		ContactName:     r.ContactName,
		ContactLastName: r.ContactLastName,
		ContactPhone:    r.ContactPhone,
		Notes:           r.Notes,
		Guests:          datatypes.JSON(raw),
		CreatedBy:       r.CreatedBy,
		ModifiedBy:      r.ModifiedBy,
		IsDeleted:       r.Deleted,
		DeletedOn:       r.DeletedOn,
		DeletedBy:       r.DeletedBy,
		CreatedAt:       r.CreatedOn,
		UpdatedAt:       r.ModifiedOn,
	}, nil
}

func (e ReservationEntity) Reservation() (Reservation, error) {
	guests := []Guest{}
	if len(e.Guests) > 0 {
		if err := json.Unmarshal(e.Guests, &guests); err != nil {
			return Reservation{}, fmt.Errorf("reservation %s: decode guests: %w", e.ID, err)
		}
	}
	status, err := ParseReservationStatus(e.Status)
	if err != nil {
		status = StatusPending
	}
	return Reservation{
		ID:              ReservationID(e.ID),
		HotelID:         HotelID(e.HotelID),
		RoomNumber:      e.RoomNumber,
		CheckIn:         e.CheckInDate,
		CheckOut:        e.CheckOutDate,
		Status:          status,
		ContactName:     e.ContactName,
		ContactLastName: e.ContactLastName,
		ContactPhone:    e.ContactPhone,
		Notes:           e.Notes,
		Guests:          guests,
		Deleted:         e.IsDeleted,
		DeletedBy:       e.DeletedBy,
		DeletedOn:       e.DeletedOn,
		CreatedBy:       e.CreatedBy,
		ModifiedBy:      e.ModifiedBy,
		CreatedOn:       e.CreatedAt,
		ModifiedOn:      e.UpdatedAt,
	}, nil
}
