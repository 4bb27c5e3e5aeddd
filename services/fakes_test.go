package services

import (
	"context"
	"sync"
	"time"

	"booking-calendar/models"
)

var testNow = time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)

// fakeStore is an in-memory ReservationStore.
type fakeStore struct {
	mu           sync.Mutex
	company      models.Company
	hotels       []models.Hotel
	rooms        map[models.HotelID][]models.Room
	reservations map[models.HotelID][]models.Reservation

	listCalls int
	// listHook runs before ListReservations answers; it may block or fail.
	listHook func(call int, hotel models.HotelID) error
	writeErr error
	created  []models.ReservationPayload
	patched  []models.ReservationPatch
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		company: models.Company{ID: "comp1", Name: "Demo"},
		hotels: []models.Hotel{
			{ID: "hotel2", CompanyID: "comp1", Name: "Lake", SortNumber: 2},
			{ID: "hotel1", CompanyID: "comp1", Name: "Central", SortNumber: 1},
		},
		rooms: map[models.HotelID][]models.Room{
			"hotel1": {{Number: "102"}, {Number: "101"}},
			"hotel2": {{Number: "201"}},
		},
		reservations: map[models.HotelID][]models.Reservation{},
	}
}

func (f *fakeStore) add(hotel models.HotelID, r models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.HotelID = hotel
	f.reservations[hotel] = append(f.reservations[hotel], r)
}

func (f *fakeStore) GetCompany(_ context.Context, id models.CompanyID) (models.Company, error) {
	if id != f.company.ID {
		return models.Company{}, ErrCompanyNotFound
	}
	return f.company, nil
}

func (f *fakeStore) ListHotels(context.Context) ([]models.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Hotel(nil), f.hotels...), nil
}

func (f *fakeStore) ListRooms(_ context.Context, hotel models.HotelID) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Room(nil), f.rooms[hotel]...), nil
}

func (f *fakeStore) ListReservations(_ context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	f.mu.Lock()
	f.listCalls++
	call, hook := f.listCalls, f.listHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(call, hotel); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations[hotel] {
		if r.Deleted || r.CheckIn.After(end) || r.CheckOut.Before(start) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) CreateReservation(_ context.Context, hotel models.HotelID, p models.ReservationPayload) (models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return models.Reservation{}, f.writeErr
	}
	f.created = append(f.created, p)
	r := models.Reservation{
		ID:          models.ReservationID(p.ReservationID),
		HotelID:     hotel,
		RoomNumber:  p.RoomNumber,
		CheckIn:     models.MustParseDate(p.CheckInDate),
		CheckOut:    models.MustParseDate(p.CheckOutDate),
		Status:      models.ReservationStatus(p.Status),
		ContactName: p.ContactName,
		Guests:      p.Guests,
	}
	f.reservations[hotel] = append(f.reservations[hotel], r)
	return r, nil
}

func (f *fakeStore) UpdateReservation(_ context.Context, hotel models.HotelID, id models.ReservationID, p models.ReservationPatch) (models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return models.Reservation{}, f.writeErr
	}
	f.patched = append(f.patched, p)
	for i, r := range f.reservations[hotel] {
		if r.ID != id {
			continue
		}
		if p.ContactName != nil {
			r.ContactName = *p.ContactName
		}
		if p.CheckOutDate != nil {
			r.CheckOut = models.MustParseDate(*p.CheckOutDate)
		}
		f.reservations[hotel][i] = r
		return r, nil
	}
	return models.Reservation{}, &StoreError{Status: 404, Detail: "Reservation not found"}
}

func (f *fakeStore) DeleteReservation(_ context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return models.Reservation{}, f.writeErr
	}
	for i, r := range f.reservations[hotel] {
		if r.ID == id && !r.Deleted {
			r.Deleted = true
			r.DeletedOn = models.DateOf(testNow)
			f.reservations[hotel][i] = r
			return r, nil
		}
	}
	return models.Reservation{}, &StoreError{Status: 404, Detail: "Reservation not found"}
}

func (f *fakeStore) ListDeletedReservations(_ context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations[hotel] {
		if r.Deleted && r.DeletedOn.Within(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}
