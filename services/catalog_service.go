package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"booking-calendar/models"
)

// CatalogRepository reads companies, hotels and rooms.
type CatalogRepository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id models.CompanyID) (models.Company, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	GetHotel(ctx context.Context, id models.HotelID) (models.Hotel, error)
	ListRooms(ctx context.Context, hotel models.HotelID) ([]models.Room, error)
}

// GormCatalogRepository is CatalogRepository on top of gorm.
type GormCatalogRepository struct {
	DB *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{DB: db}
}

func (r *GormCatalogRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var rows []models.CompanyEntity
	if err := r.DB.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	out := make([]models.Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Company())
	}
	return out, nil
}

func (r *GormCatalogRepository) GetCompany(ctx context.Context, id models.CompanyID) (models.Company, error) {
	var row models.CompanyEntity
	err := r.DB.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Company{}, ErrCompanyNotFound
	}
	if err != nil {
		return models.Company{}, fmt.Errorf("get company %s: %w", id, err)
	}
	return row.Company(), nil
}

func (r *GormCatalogRepository) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	var rows []models.HotelEntity
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	out := make([]models.Hotel, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Hotel())
	}
	return out, nil
}

func (r *GormCatalogRepository) GetHotel(ctx context.Context, id models.HotelID) (models.Hotel, error) {
	var row models.HotelEntity
	err := r.DB.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Hotel{}, ErrHotelNotFound
	}
	if err != nil {
		return models.Hotel{}, fmt.Errorf("get hotel %s: %w", id, err)
	}
	return row.Hotel(), nil
}

func (r *GormCatalogRepository) ListRooms(ctx context.Context, hotel models.HotelID) ([]models.Room, error) {
	var rows []models.RoomEntity
	if err := r.DB.WithContext(ctx).Where("hotel_id = ?", string(hotel)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rooms of %s: %w", hotel, err)
	}
	out := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Room())
	}
	return out, nil
}

// SortHotels orders hotels by sort number, then name.
func SortHotels(hotels []models.Hotel) {
	sort.SliceStable(hotels, func(i, j int) bool {
		if hotels[i].SortNumber != hotels[j].SortNumber {
			return hotels[i].SortNumber < hotels[j].SortNumber
		}
		return hotels[i].Name < hotels[j].Name
	})
}

// SortRooms orders rooms numerically by number; non-numeric numbers go last
// in string order.
func SortRooms(rooms []models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, errA := strconv.Atoi(rooms[i].Number)
		b, errB := strconv.Atoi(rooms[j].Number)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return rooms[i].Number < rooms[j].Number
	})
}

// CatalogService answers the read-only store endpoints.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Companies(ctx context.Context) ([]models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

func (s *CatalogService) Company(ctx context.Context, id models.CompanyID) (models.Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *CatalogService) Hotels(ctx context.Context) ([]models.Hotel, error) {
	hotels, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	SortHotels(hotels)
	return hotels, nil
}

func (s *CatalogService) Hotel(ctx context.Context, id models.HotelID) (models.Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

// Rooms lists the rooms of hotel; an unknown hotel is ErrHotelNotFound.
func (s *CatalogService) Rooms(ctx context.Context, hotel models.HotelID) ([]models.Room, error) {
	if _, err := s.repo.GetHotel(ctx, hotel); err != nil {
		return nil, err
	}
	rooms, err := s.repo.ListRooms(ctx, hotel)
	if err != nil {
		return nil, err
	}
	SortRooms(rooms)
	return rooms, nil
}
