package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"booking-calendar/models"
)

const (
	msgLoadFailed   = "Failed to load reservations"
	msgSaveFailed   = "Failed to save reservation"
	msgDeleteFailed = "Failed to delete reservation"
)

// GridCell is one resolved cell plus how to draw it.
type GridCell struct {
	RoomStatus
	Layout CellLayout `json:"layout"`
}

type GridRow struct {
	Room     string     `json:"room"`
	Label    string     `json:"label"`
	Type     string     `json:"type"`
	IsActive bool       `json:"is_active"`
	Cells    []GridCell `json:"cells"`
}

type HotelOption struct {
	ID   models.HotelID `json:"id"`
	Name string         `json:"name"`
}

// CalendarGrid is everything the browser needs to paint the calendar.
type CalendarGrid struct {
	Company    string           `json:"company"`
	Hotels     []HotelOption    `json:"hotels"`
	HotelID    models.HotelID   `json:"hotel_id"`
	Date       models.Date      `json:"date"`
	Dates      []models.Date    `json:"dates"`
	Rows       []GridRow        `json:"rows"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
	Generation uint64           `json:"generation"`
	Form       *ReservationForm `json:"form,omitempty"`
}

// Session is the calendar state of one signed-in user. Network calls run
// without holding the lock; every reload takes a generation number and only
// the newest generation may replace the snapshot.
type Session struct {
	store     ReservationStore
	clock     Clock
	principal models.Principal

	mu           sync.Mutex
	company      models.Company
	hotels       []models.Hotel
	hotel        models.HotelID
	refDate      models.Date
	width        int
	rooms        []models.Room
	roomsOf      models.HotelID
	reservations []models.Reservation
	generation   uint64
	loading      bool
	form         *ReservationForm
	lastErr      string
}

func NewSession(store ReservationStore, clock Clock, p models.Principal) *Session {
	return &Session{
		store:     store,
		clock:     clock,
		principal: p,
		refDate:   today(clock),
	}
}

func (s *Session) Principal() models.Principal { return s.principal }

// Open loads the company and its hotels, then selects hotel (the first hotel
// when hotel is empty).
func (s *Session) Open(ctx context.Context, hotel models.HotelID) error {
	var company models.Company
	if s.principal.CompanyID != "" {
		c, err := s.store.GetCompany(ctx, s.principal.CompanyID)
		switch {
		case errors.Is(err, ErrStoreUnauthorized):
			return err
		case err != nil:
			log.Printf("load company %s: %v", s.principal.CompanyID, err)
		default:
			company = c
		}
	}

	hotels, err := s.store.ListHotels(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = msgLoadFailed
		s.mu.Unlock()
		return fmt.Errorf("list hotels: %w", err)
	}
	hotels = hotelsOfCompany(hotels, s.principal.CompanyID)
	SortHotels(hotels)

	s.mu.Lock()
	s.company = company
	s.hotels = hotels
	if hotel == "" && len(hotels) > 0 {
		hotel = hotels[0].ID
	}
	s.mu.Unlock()

	if hotel == "" {
		return nil
	}
	return s.SelectHotel(ctx, hotel)
}

func hotelsOfCompany(hotels []models.Hotel, company models.CompanyID) []models.Hotel {
	if company == "" {
		return hotels
	}
	out := hotels[:0]
	for _, h := range hotels {
		if h.CompanyID == "" || h.CompanyID == company {
			out = append(out, h)
		}
	}
	return out
}

func (s *Session) SelectHotel(ctx context.Context, id models.HotelID) error {
	s.mu.Lock()
	known := false
	for _, h := range s.hotels {
		if h.ID == id {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		return ErrHotelNotFound
	}
	s.hotel = id
	s.form = nil
	s.mu.Unlock()
	return s.Reload(ctx)
}

// SetDate moves the first visible day and reloads.
func (s *Session) SetDate(ctx context.Context, d models.Date) error {
	s.mu.Lock()
	s.refDate = d
	s.mu.Unlock()
	return s.Reload(ctx)
}

// Resize records the grid width. It reloads only when the load window changes.
func (s *Session) Resize(ctx context.Context, width int) (bool, error) {
	s.mu.Lock()
	oldStart, oldEnd := LoadWindow(s.refDate, DaysToShow(s.width))
	s.width = width
	newStart, newEnd := LoadWindow(s.refDate, DaysToShow(s.width))
	hotel := s.hotel
	s.mu.Unlock()

	if hotel == "" || (oldStart.Equal(newStart) && oldEnd.Equal(newEnd)) {
		return false, nil
	}
	return true, s.Reload(ctx)
}

// Reload fetches rooms (on hotel change) and the reservations of the load
// window. On failure the previous snapshot of the same hotel stays and the
// error is recorded; a failed hotel switch leaves an empty grid.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.hotel == "" {
		s.mu.Unlock()
		return ErrHotelNotSelected
	}
	s.generation++
	gen := s.generation
	hotel := s.hotel
	start, end := LoadWindow(s.refDate, DaysToShow(s.width))
	needRooms := s.roomsOf != hotel
	s.loading = true
	s.mu.Unlock()

	var (
		rooms        []models.Room
		reservations []models.Reservation
		err          error
	)
	if needRooms {
		rooms, err = s.store.ListRooms(ctx, hotel)
	}
	if err == nil {
		reservations, err = s.store.ListReservations(ctx, hotel, start, end)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Printf("discarding stale load %d of hotel %s (current %d)", gen, hotel, s.generation)
		if errors.Is(err, ErrStoreUnauthorized) {
			return err
		}
		return nil
	}
	s.loading = false
	if err != nil {
		log.Printf("load hotel %s %s..%s: %v", hotel, start, end, err)
		s.lastErr = msgLoadFailed
		if needRooms {
			// the snapshot belongs to another hotel
			s.rooms, s.roomsOf, s.reservations = nil, "", nil
		}
		return fmt.Errorf("load hotel %s: %w", hotel, err)
	}
	if needRooms {
		SortRooms(rooms)
		s.rooms = rooms
		s.roomsOf = hotel
	}
	s.reservations = reservations
	s.lastErr = ""
	return nil
}

// Grid resolves every visible cell against the current snapshot.
func (s *Session) Grid() CalendarGrid {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := DateRange(s.refDate, DaysToShow(s.width))
	rows := make([]GridRow, 0, len(s.rooms))
	for _, room := range s.rooms {
		cells := make([]GridCell, 0, len(dates))
		for _, d := range dates {
			st := ResolveRoomStatus(room.Number, d, s.reservations)
			cells = append(cells, GridCell{RoomStatus: st, Layout: LayoutFor(st)})
		}
		rows = append(rows, GridRow{
			Room:     room.Number,
			Label:    room.FloorLabel(),
			Type:     room.Type,
			IsActive: room.IsActive,
			Cells:    cells,
		})
	}

	hotels := make([]HotelOption, 0, len(s.hotels))
	for _, h := range s.hotels {
		hotels = append(hotels, HotelOption{ID: h.ID, Name: h.Name})
	}

	grid := CalendarGrid{
		Company:    s.company.Name,
		Hotels:     hotels,
		HotelID:    s.hotel,
		Date:       s.refDate,
		Dates:      dates,
		Rows:       rows,
		Loading:    s.loading,
		Error:      s.lastErr,
		Generation: s.generation,
	}
	if s.form != nil {
		f := s.form.clone()
		grid.Form = &f
	}
	return grid
}

// Reservations returns a copy of the current snapshot.
func (s *Session) Reservations() []models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Reservation(nil), s.reservations...)
}

// DeletedReservations lists the soft-deleted reservations of the selected
// hotel whose deletion day falls in [start, end]. The grid is not touched.
func (s *Session) DeletedReservations(ctx context.Context, start, end models.Date) ([]models.Reservation, error) {
	s.mu.Lock()
	hotel := s.hotel
	s.mu.Unlock()
	if hotel == "" {
		return nil, ErrHotelNotSelected
	}
	return s.store.ListDeletedReservations(ctx, hotel, start, end)
}

// Click opens the modal a click on (room, date, half) leads to.
func (s *Session) Click(room string, date models.Date, half CellHalf) (ReservationForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = ""
	if s.hotel == "" {
		return ReservationForm{}, ErrHotelNotSelected
	}
	if !s.hasRoom(room) {
		return ReservationForm{}, ErrRoomNotFound
	}

	intent, ok := DispatchClick(ResolveRoomStatus(room, date, s.reservations), half)
	if !ok {
		return ReservationForm{}, ErrCellInert
	}

	var form ReservationForm
	switch intent.Mode {
	case ModalCreate:
		form = NewCreateForm(intent, s.rooms)
	case ModalEdit:
		r, found := s.reservation(intent.ReservationID)
		if !found {
			return ReservationForm{}, ErrReservationNotFound
		}
		form = NewEditForm(r)
	}
	s.form = &form
	return form.clone(), nil
}

func (s *Session) hasRoom(number string) bool {
	for _, r := range s.rooms {
		if r.Number == number {
			return true
		}
	}
	return false
}

func (s *Session) reservation(id models.ReservationID) (models.Reservation, bool) {
	for _, r := range s.reservations {
		if r.ID == id && !r.Deleted {
			return r, true
		}
	}
	return models.Reservation{}, false
}

func (s *Session) Form() (ReservationForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ReservationForm{}, false
	}
	return s.form.clone(), true
}

func (s *Session) CloseForm() {
	s.mu.Lock()
	s.form = nil
	s.mu.Unlock()
}

// SubmitForm creates or updates the reservation of the open form. The reload
// runs only after the store confirmed the write.
func (s *Session) SubmitForm(ctx context.Context, in FormInput) (models.Reservation, error) {
	s.mu.Lock()
	if s.form == nil {
		s.mu.Unlock()
		return models.Reservation{}, ErrNoOpenForm
	}
	draft := s.form.clone()
	draft.Apply(in)
	draft.Error = ""
	hotel := s.hotel
	s.mu.Unlock()

	var (
		saved models.Reservation
		err   error
	)
	if draft.Mode == ModalCreate {
		saved, err = s.store.CreateReservation(ctx, hotel, draft.CreatePayload(NewReservationID()))
	} else {
		saved, err = s.store.UpdateReservation(ctx, hotel, draft.ReservationID, draft.UpdatePatch())
	}
	if err != nil {
		s.formFailed(draft, err, msgSaveFailed)
		return models.Reservation{}, err
	}

	s.closeForm(draft)
	return saved, s.reloadAfterWrite(ctx)
}

// DeleteReservation soft-deletes the reservation of the open edit form.
func (s *Session) DeleteReservation(ctx context.Context) (models.Reservation, error) {
	s.mu.Lock()
	if s.form == nil || s.form.Mode != ModalEdit {
		s.mu.Unlock()
		return models.Reservation{}, ErrNoOpenForm
	}
	draft := s.form.clone()
	draft.Error = ""
	hotel := s.hotel
	s.mu.Unlock()

	deleted, err := s.store.DeleteReservation(ctx, hotel, draft.ReservationID)
	if err != nil {
		s.formFailed(draft, err, msgDeleteFailed)
		return models.Reservation{}, err
	}

	s.closeForm(draft)
	return deleted, s.reloadAfterWrite(ctx)
}

// reloadAfterWrite refreshes the snapshot once a write is confirmed. A load
// failure is already recorded on the session, so only sign-out propagates.
func (s *Session) reloadAfterWrite(ctx context.Context) error {
	if err := s.Reload(ctx); errors.Is(err, ErrStoreUnauthorized) {
		return err
	}
	return nil
}

func (s *Session) closeForm(draft ReservationForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != nil && s.form.sameTarget(draft) {
		s.form = nil
	}
}

// formFailed keeps the user's edits on the form together with the message to
// show: the store's own text for validation failures, a generic one otherwise.
func (s *Session) formFailed(draft ReservationForm, err error, generic string) {
	if errors.Is(err, ErrStoreUnauthorized) {
		return
	}
	var se *StoreError
	if errors.As(err, &se) && se.IsValidation() {
		draft.Error = se.Detail
	} else {
		log.Printf("%s: %v", generic, err)
		draft.Error = generic
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != nil && s.form.sameTarget(draft) {
		s.form = &draft
	}
}
