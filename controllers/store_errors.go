package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-calendar/services"
	"booking-calendar/utils"
)

// storeStatus maps service errors to the store's HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateID),
		errors.Is(err, services.ErrRoomLocked):
		return http.StatusConflict
	case errors.Is(err, services.ErrRoomUnavailable),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrContactRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoUpdates):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondStoreError(c *gin.Context, err error) {
	status := storeStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONDetail(c, status, "Internal server error")
		return
	}
	utils.JSONDetail(c, status, err.Error())
}
