package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"booking-calendar/models"
)

// ReservationRepository persists reservations. Get returns soft-deleted rows
// too; the list and overlap queries never do (except ListDeleted).
type ReservationRepository interface {
	ListActive(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error)
	ListDeleted(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error)
	Get(ctx context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error)
	Overlapping(ctx context.Context, hotel models.HotelID, room string, checkIn, checkOut models.Date, exclude models.ReservationID) ([]models.Reservation, error)
	Create(ctx context.Context, r models.Reservation) error
	Save(ctx context.Context, r models.Reservation) error
}

const mysqlDuplicateEntry = 1062

// GormReservationRepository stores reservations through gorm (MySQL or Postgres).
type GormReservationRepository struct {
	DB *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{DB: db}
}

func decodeEntities(rows []models.ReservationEntity) ([]models.Reservation, error) {
	out := make([]models.Reservation, 0, len(rows))
	for _, row := range rows {
		r, err := row.Reservation()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ListActive returns reservations whose inclusive span touches [start, end].
func (r *GormReservationRepository) ListActive(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	var rows []models.ReservationEntity
	err := r.DB.WithContext(ctx).
		Where("hotel_id = ? AND is_deleted = ?", string(hotel), false).
		Where("check_in_date <= ? AND check_out_date >= ?", end, start).
		Order("room_number, check_in_date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations of %s: %w", hotel, err)
	}
	return decodeEntities(rows)
}

func (r *GormReservationRepository) ListDeleted(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	var rows []models.ReservationEntity
	err := r.DB.WithContext(ctx).
		Where("hotel_id = ? AND is_deleted = ?", string(hotel), true).
		Where("deleted_on >= ? AND deleted_on <= ?", start, end).
		Order("deleted_on DESC, room_number").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list deleted reservations of %s: %w", hotel, err)
	}
	return decodeEntities(rows)
}

func (r *GormReservationRepository) Get(ctx context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error) {
	var row models.ReservationEntity
	err := r.DB.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", string(id), string(hotel)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return models.Reservation{}, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return row.Reservation()
}

// Overlapping finds live reservations of room sharing at least one night with
// [checkIn, checkOut]. Touching boundaries do not count.
func (r *GormReservationRepository) Overlapping(ctx context.Context, hotel models.HotelID, room string, checkIn, checkOut models.Date, exclude models.ReservationID) ([]models.Reservation, error) {
	var rows []models.ReservationEntity
	q := r.DB.WithContext(ctx).
		Where("hotel_id = ? AND room_number = ? AND is_deleted = ?", string(hotel), room, false).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if exclude != "" {
		q = q.Where("id <> ?", string(exclude))
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("check availability of room %s: %w", room, err)
	}
	return decodeEntities(rows)
}

func (r *GormReservationRepository) Create(ctx context.Context, res models.Reservation) error {
	row, err := models.NewReservationEntity(res)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("create reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *GormReservationRepository) Save(ctx context.Context, res models.Reservation) error {
	row, err := models.NewReservationEntity(res)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save reservation %s: %w", res.ID, err)
	}
	return nil
}

// isDuplicateKey recognises a duplicate primary key. With TranslateError the
// dialector reports gorm.ErrDuplicatedKey; handles opened without it surface
// the raw driver error.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ReservationService implements the reservation endpoints of the store:
// validation, the availability rule and soft delete.
type ReservationService struct {
	repo    ReservationRepository
	catalog CatalogRepository
	locks   RoomLocker
	clock   Clock
}

func NewReservationService(repo ReservationRepository, catalog CatalogRepository, locks RoomLocker, clock Clock) *ReservationService {
	if locks == nil {
		locks = NewLocalRoomLocker()
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	return &ReservationService{repo: repo, catalog: catalog, locks: locks, clock: clock}
}

func (s *ReservationService) List(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.catalog.GetHotel(ctx, hotel); err != nil {
		return nil, err
	}
	return s.repo.ListActive(ctx, hotel, start, end)
}

func (s *ReservationService) ListDeleted(ctx context.Context, hotel models.HotelID, start, end models.Date) ([]models.Reservation, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.catalog.GetHotel(ctx, hotel); err != nil {
		return nil, err
	}
	return s.repo.ListDeleted(ctx, hotel, start, end)
}

func (s *ReservationService) Create(ctx context.Context, hotel models.HotelID, p models.ReservationPayload, actor string) (models.Reservation, error) {
	if _, err := s.catalog.GetHotel(ctx, hotel); err != nil {
		return models.Reservation{}, err
	}
	res, err := reservationFromPayload(hotel, p)
	if err != nil {
		return models.Reservation{}, err
	}
	if err := s.requireRoom(ctx, hotel, res.RoomNumber); err != nil {
		return models.Reservation{}, err
	}

	unlock, err := s.locks.Lock(ctx, hotel, res.RoomNumber)
	if err != nil {
		return models.Reservation{}, err
	}
	defer unlock()

	if err := s.ensureAvailable(ctx, res); err != nil {
		return models.Reservation{}, err
	}

	now := s.clock.Now().UTC()
	res.CreatedBy, res.ModifiedBy = actor, actor
	res.CreatedOn, res.ModifiedOn = now, now
	if err := s.repo.Create(ctx, res); err != nil {
		return models.Reservation{}, err
	}
	log.Printf("created reservation %s for hotel %s room %s", res.ID, hotel, res.RoomNumber)
	return res, nil
}

func (s *ReservationService) Update(ctx context.Context, hotel models.HotelID, id models.ReservationID, p models.ReservationPatch, actor string) (models.Reservation, error) {
	if p.Empty() {
		return models.Reservation{}, ErrNoUpdates
	}
	current, err := s.live(ctx, hotel, id)
	if err != nil {
		return models.Reservation{}, err
	}
	next, err := applyPatch(current, p)
	if err != nil {
		return models.Reservation{}, err
	}

	if p.TouchesSchedule() {
		if err := s.requireRoom(ctx, hotel, next.RoomNumber); err != nil {
			return models.Reservation{}, err
		}
		unlock, err := s.locks.Lock(ctx, hotel, next.RoomNumber)
		if err != nil {
			return models.Reservation{}, err
		}
		defer unlock()
		if err := s.ensureAvailable(ctx, next); err != nil {
			return models.Reservation{}, err
		}
	}

	next.ModifiedBy = actor
	next.ModifiedOn = s.clock.Now().UTC()
	if err := s.repo.Save(ctx, next); err != nil {
		return models.Reservation{}, err
	}
	log.Printf("updated reservation %s for hotel %s", id, hotel)
	return next, nil
}

// Delete marks the reservation deleted today by actor; the row is kept.
func (s *ReservationService) Delete(ctx context.Context, hotel models.HotelID, id models.ReservationID, actor string) (models.Reservation, error) {
	res, err := s.live(ctx, hotel, id)
	if err != nil {
		return models.Reservation{}, err
	}
	res.Deleted = true
	res.DeletedOn = today(s.clock)
	res.DeletedBy = actor
	res.ModifiedBy = actor
	res.ModifiedOn = s.clock.Now().UTC()
	if err := s.repo.Save(ctx, res); err != nil {
		return models.Reservation{}, err
	}
	log.Printf("deleted reservation %s for hotel %s by %s", id, hotel, actor)
	return res, nil
}

func (s *ReservationService) live(ctx context.Context, hotel models.HotelID, id models.ReservationID) (models.Reservation, error) {
	res, err := s.repo.Get(ctx, hotel, id)
	if err != nil {
		return models.Reservation{}, err
	}
	if res.Deleted {
		return models.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

func (s *ReservationService) requireRoom(ctx context.Context, hotel models.HotelID, number string) error {
	rooms, err := s.catalog.ListRooms(ctx, hotel)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if room.Number == number {
			return nil
		}
	}
	return ErrRoomNotFound
}

func (s *ReservationService) ensureAvailable(ctx context.Context, res models.Reservation) error {
	clashes, err := s.repo.Overlapping(ctx, res.HotelID, res.RoomNumber, res.CheckIn, res.CheckOut, res.ID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		return &UnavailableError{Room: res.RoomNumber}
	}
	return nil
}

func parseStayDates(checkIn, checkOut string) (models.Date, models.Date, error) {
	in, err := models.ParseDate(checkIn)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: check_in_date %q", ErrInvalidDate, checkIn)
	}
	out, err := models.ParseDate(checkOut)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: check_out_date %q", ErrInvalidDate, checkOut)
	}
	if in.After(out) {
		return models.Date{}, models.Date{}, ErrInvalidDateRange
	}
	return in, out, nil
}

func parseStatus(s string) (models.ReservationStatus, error) {
	if strings.TrimSpace(s) == "" {
		return models.StatusConfirmed, nil
	}
	st, err := models.ParseReservationStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func reservationFromPayload(hotel models.HotelID, p models.ReservationPayload) (models.Reservation, error) {
	id := NewReservationID()
	if strings.TrimSpace(p.ReservationID) != "" {
		parsed, err := models.ParseReservationKey(strings.TrimSpace(p.ReservationID))
		if err != nil {
			return models.Reservation{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		id = parsed
	}
	room := strings.TrimSpace(p.RoomNumber)
	if room == "" {
		return models.Reservation{}, ErrRoomNotFound
	}
	in, out, err := parseStayDates(p.CheckInDate, p.CheckOutDate)
	if err != nil {
		return models.Reservation{}, err
	}
	if strings.TrimSpace(p.ContactName) == "" {
		return models.Reservation{}, ErrContactRequired
	}
	status, err := parseStatus(p.Status)
	if err != nil {
		return models.Reservation{}, err
	}
	return models.Reservation{
		ID:              id,
		HotelID:         hotel,
		RoomNumber:      room,
		CheckIn:         in,
		CheckOut:        out,
		Status:          status,
		ContactName:     strings.TrimSpace(p.ContactName),
		ContactLastName: strings.TrimSpace(p.ContactLastName),
		ContactPhone:    strings.TrimSpace(p.ContactPhone),
		Notes:           p.Notes,
		Guests:          models.NonBlankGuests(p.Guests),
	}, nil
}

func applyPatch(r models.Reservation, p models.ReservationPatch) (models.Reservation, error) {
	if p.RoomNumber != nil {
		room := strings.TrimSpace(*p.RoomNumber)
		if room == "" {
			return models.Reservation{}, ErrRoomNotFound
		}
		r.RoomNumber = room
	}
	checkIn, checkOut := r.CheckIn.String(), r.CheckOut.String()
	if p.CheckInDate != nil {
		checkIn = *p.CheckInDate
	}
	if p.CheckOutDate != nil {
		checkOut = *p.CheckOutDate
	}
	in, out, err := parseStayDates(checkIn, checkOut)
	if err != nil {
		return models.Reservation{}, err
	}
	r.CheckIn, r.CheckOut = in, out

	if p.Status != nil {
		st, err := parseStatus(*p.Status)
		if err != nil {
			return models.Reservation{}, err
		}
		r.Status = st
	}
	if p.ContactName != nil {
		if strings.TrimSpace(*p.ContactName) == "" {
			return models.Reservation{}, ErrContactRequired
		}
		r.ContactName = strings.TrimSpace(*p.ContactName)
	}
	if p.ContactLastName != nil {
		r.ContactLastName = strings.TrimSpace(*p.ContactLastName)
	}
	if p.ContactPhone != nil {
		r.ContactPhone = strings.TrimSpace(*p.ContactPhone)
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Guests != nil {
		r.Guests = models.NonBlankGuests(*p.Guests)
	}
	return r, nil
}
