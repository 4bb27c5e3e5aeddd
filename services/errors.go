package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomUnavailable     = errors.New("room is not available for the selected dates")
	ErrDuplicateID         = errors.New("reservation id already exists")
	ErrInvalidDateRange    = errors.New("check-in date must not be after check-out date")
	ErrContactRequired     = errors.New("contact name is required")
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrNoUpdates           = errors.New("no updates provided")
	ErrRoomLocked          = errors.New("room is being modified, try again")
	ErrInvalidID           = errors.New("invalid reservation id")
	ErrInvalidDate         = errors.New("dates must be YYYY-MM-DD")

	ErrStoreUnauthorized = errors.New("reservation store rejected the credential")
	ErrStoreUnavailable  = errors.New("reservation store unavailable")

	ErrHotelNotSelected = errors.New("no hotel selected")
	ErrNoOpenForm       = errors.New("no reservation form is open")
	ErrCellInert        = errors.New("cell has no action")
	ErrSessionNotFound  = errors.New("calendar session not found")
)

// UnavailableError is returned when the requested stay overlaps another
// reservation of the same room. It matches ErrRoomUnavailable.
type UnavailableError struct {
	Room string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("Room %s is not available for the selected dates", e.Room)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrRoomUnavailable }

// StoreError is a non-2xx answer from the reservation store other than 401.
// Detail is the store's message, shown to the user unchanged.
type StoreError struct {
	Status int
	Detail string
}

func (e *StoreError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("reservation store: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("reservation store: %d %s", e.Status, e.Detail)
}

// IsValidation reports a 4xx rejection of the request content.
func (e *StoreError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500
}
