package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-calendar/middleware"
	"booking-calendar/models"
	"booking-calendar/services"
	"booking-calendar/utils"
)

type ReservationController struct {
	service *services.ReservationService
}

func NewReservationController(s *services.ReservationService) *ReservationController {
	return &ReservationController{service: s}
}

type dateWindowQuery struct {
	StartDate string `form:"start_date" binding:"required,isodate"`
	EndDate   string `form:"end_date" binding:"required,isodate"`
}

func (q dateWindowQuery) window() (models.Date, models.Date) {
	return models.MustParseDate(q.StartDate), models.MustParseDate(q.EndDate)
}

func actorOf(c *gin.Context) string {
	p, _ := middleware.PrincipalFrom(c)
	return p.Actor()
}

func recordsOf(reservations []models.Reservation) []models.ReservationRecord {
	out := make([]models.ReservationRecord, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, models.NewReservationRecord(r))
	}
	return out
}

// GET /hotels/:id/reservations?start_date=&end_date=
func (rc *ReservationController) List(c *gin.Context) {
	hotel, ok := hotelParam(c)
	if !ok {
		return
	}
	var q dateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	start, end := q.window()
	reservations, err := rc.service.List(c.Request.Context(), hotel, start, end)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": recordsOf(reservations)})
}

// GET /hotels/:id/reservations/deleted?start_date=&end_date=
func (rc *ReservationController) ListDeleted(c *gin.Context) {
	hotel, ok := hotelParam(c)
	if !ok {
		return
	}
	var q dateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	start, end := q.window()
	reservations, err := rc.service.ListDeleted(c.Request.Context(), hotel, start, end)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_reservations": recordsOf(reservations)})
}

// POST /hotels/:id/reservations
func (rc *ReservationController) Create(c *gin.Context) {
	hotel, ok := hotelParam(c)
	if !ok {
		return
	}
	var payload models.ReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rc.service.Create(c.Request.Context(), hotel, payload, actorOf(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation created successfully",
		"reservation": models.NewReservationRecord(res),
	})
}

// PUT /hotels/:id/reservations/:rid
func (rc *ReservationController) Update(c *gin.Context) {
	hotel, ok := hotelParam(c)
	if !ok {
		return
	}
	id, err := models.ParseReservationKey(c.Param("rid"))
	if err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	var patch models.ReservationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rc.service.Update(c.Request.Context(), hotel, id, patch, actorOf(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation updated successfully",
		"reservation": models.NewReservationRecord(res),
	})
}

// DELETE /hotels/:id/reservations/:rid
func (rc *ReservationController) Delete(c *gin.Context) {
	hotel, ok := hotelParam(c)
	if !ok {
		return
	}
	id, err := models.ParseReservationKey(c.Param("rid"))
	if err != nil {
		utils.JSONDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := rc.service.Delete(c.Request.Context(), hotel, id, actorOf(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation deleted successfully",
		"reservation": models.NewReservationRecord(res),
	})
}
