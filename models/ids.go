package models

import (
	"errors"
	"fmt"
	"strings"
)

// Storage keys carry an entity prefix ("RESERVATION#res_1"). The domain only
// ever sees the bare identifier; keys are decoded once where records enter
// the process and encoded again only when talking to storage.
const (
	reservationKeyPrefix = "RESERVATION#"
	hotelKeyPrefix       = "LOCATION#"
	companyKeyPrefix     = "COMPANY#"
	roomKeyPrefix        = "ROOM#"
)

var ErrEmptyID = errors.New("empty identifier")

type (
	ReservationID string
	HotelID       string
	CompanyID     string
	RoomID        string
)

func parseKey(key, prefix string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyID
	}
	if strings.HasPrefix(key, prefix) {
		key = strings.TrimPrefix(key, prefix)
	} else if i := strings.IndexByte(key, '#'); i >= 0 {
		return "", fmt.Errorf("key %q does not have prefix %q", key, prefix)
	}
	if key == "" {
		return "", ErrEmptyID
	}
	return key, nil
}

// ParseReservationKey accepts "RESERVATION#<id>" or a bare id.
func ParseReservationKey(key string) (ReservationID, error) {
	id, err := parseKey(key, reservationKeyPrefix)
	return ReservationID(id), err
}

// ParseHotelKey accepts "LOCATION#<id>" or a bare id.
func ParseHotelKey(key string) (HotelID, error) {
	id, err := parseKey(key, hotelKeyPrefix)
	return HotelID(id), err
}

func ParseCompanyKey(key string) (CompanyID, error) {
	id, err := parseKey(key, companyKeyPrefix)
	return CompanyID(id), err
}

func ParseRoomKey(key string) (RoomID, error) {
	id, err := parseKey(key, roomKeyPrefix)
	return RoomID(id), err
}

func (id ReservationID) Key() string { return reservationKeyPrefix + string(id) }
func (id HotelID) Key() string       { return hotelKeyPrefix + string(id) }
func (id CompanyID) Key() string     { return companyKeyPrefix + string(id) }
func (id RoomID) Key() string        { return roomKeyPrefix + string(id) }

func (id ReservationID) String() string { return string(id) }
func (id HotelID) String() string       { return string(id) }
func (id CompanyID) String() string     { return string(id) }
func (id RoomID) String() string        { return string(id) }
