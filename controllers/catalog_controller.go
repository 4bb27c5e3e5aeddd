package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-calendar/models"
	"booking-calendar/services"
	"booking-calendar/utils"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(s *services.CatalogService) *CatalogController {
	return &CatalogController{service: s}
}

// GET /companies/
func (cc *CatalogController) ListCompanies(c *gin.Context) {
	companies, err := cc.service.Companies(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	out := make([]models.CompanyRecord, 0, len(companies))
	for _, company := range companies {
		out = append(out, models.NewCompanyRecord(company))
	}
	c.JSON(http.StatusOK, gin.H{"companies": out})
}

// GET /companies/:id
func (cc *CatalogController) GetCompany(c *gin.Context) {
	id, err := models.ParseCompanyKey(c.Param("id"))
	if err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	company, err := cc.service.Company(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": models.NewCompanyRecord(company)})
}

// GET /hotels/
func (cc *CatalogController) ListHotels(c *gin.Context) {
	hotels, err := cc.service.Hotels(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	out := make([]models.HotelRecord, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, models.NewHotelRecord(h))
	}
	c.JSON(http.StatusOK, gin.H{"hotels": out})
}

// GET /hotels/:id
func (cc *CatalogController) GetHotel(c *gin.Context) {
	id, ok := hotelParam(c)
	if !ok {
		return
	}
	hotel, err := cc.service.Hotel(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotel": models.NewHotelRecord(hotel)})
}

// GET /hotels/:id/rooms
func (cc *CatalogController) ListRooms(c *gin.Context) {
	id, ok := hotelParam(c)
	if !ok {
		return
	}
	rooms, err := cc.service.Rooms(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	out := make([]models.RoomRecord, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, models.NewRoomRecord(r))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

func hotelParam(c *gin.Context) (models.HotelID, bool) {
	id, err := models.ParseHotelKey(c.Param("id"))
	if err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}
