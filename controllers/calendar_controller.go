package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-calendar/middleware"
	"booking-calendar/models"
	"booking-calendar/services"
	"booking-calendar/utils"
)

// CalendarController exposes the calendar session of the signed-in user.
type CalendarController struct {
	sessions *services.SessionStore
}

func NewCalendarController(sessions *services.SessionStore) *CalendarController {
	return &CalendarController{sessions: sessions}
}

type startSessionRequest struct {
	HotelID string `json:"hotel_id"`
	Width   int    `json:"width" binding:"min=0"`
}

type selectHotelRequest struct {
	HotelID string `json:"hotel_id" binding:"required"`
}

type setDateRequest struct {
	Date string `json:"date" binding:"required,isodate"`
}

type viewportRequest struct {
	Width int `json:"width" binding:"min=0"`
}

type clickRequest struct {
	Room string `json:"room" binding:"required"`
	Date string `json:"date" binding:"required,isodate"`
	Half string `json:"half"`
}

// requestContext carries the caller's bearer token to the store client.
func requestContext(c *gin.Context, p models.Principal) context.Context {
	return services.WithBearer(c.Request.Context(), p.Token)
}

// current resolves the caller's session or answers 404.
func (cc *CalendarController) current(c *gin.Context) (*services.Session, context.Context, bool) {
	p, _ := middleware.PrincipalFrom(c)
	s, ok := cc.sessions.Get(p.Subject)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "error.sessionNotFound", services.ErrSessionNotFound.Error(), nil)
		return nil, nil, false
	}
	return s, requestContext(c, p), true
}

func calendarStatus(err error) (int, string) {
	var se *services.StoreError
	switch {
	case errors.Is(err, services.ErrStoreUnauthorized):
		return http.StatusUnauthorized, "error.signedOut"
	case errors.As(err, &se) && se.IsValidation():
		return se.Status, "error.validation"
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusBadGateway, "error.storeUnavailable"
	case errors.Is(err, services.ErrHotelNotSelected):
		return http.StatusConflict, "error.hotelNotSelected"
	case errors.Is(err, services.ErrCellInert):
		return http.StatusConflict, "error.cellInert"
	case errors.Is(err, services.ErrNoOpenForm):
		return http.StatusConflict, "error.noOpenForm"
	case errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrCompanyNotFound):
		return http.StatusNotFound, "error.notFound"
	}
	return http.StatusInternalServerError, "error.internal"
}

// fail answers err together with the grid the user still sees. A rejected
// credential ends the session: the browser has to sign in again.
func (cc *CalendarController) fail(c *gin.Context, s *services.Session, err error) {
	status, code := calendarStatus(err)
	message := err.Error()

	var se *services.StoreError
	switch {
	case status == http.StatusUnauthorized:
		cc.sessions.Drop(s.Principal().Subject)
		utils.JSONError(c, status, code, "Session expired, please sign in again", nil)
		return
	case errors.As(err, &se):
		message = se.Detail
	case status == http.StatusBadGateway, status == http.StatusInternalServerError:
		log.Printf("❌ calendar %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Failed to load or save data"
	}
	utils.JSONError(c, status, code, message, gin.H{"grid": s.Grid()})
}

// POST /api/calendar/session
func (cc *CalendarController) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	var hotel models.HotelID
	if req.HotelID != "" {
		id, err := models.ParseHotelKey(req.HotelID)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
			return
		}
		hotel = id
	}

	p, _ := middleware.PrincipalFrom(c)
	s := cc.sessions.Start(p)
	ctx := requestContext(c, p)
	if req.Width > 0 {
		if _, err := s.Resize(ctx, req.Width); err != nil {
			cc.fail(c, s, err)
			return
		}
	}
	if err := s.Open(ctx, hotel); err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"grid": s.Grid()})
}

// DELETE /api/calendar/session
func (cc *CalendarController) EndSession(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	cc.sessions.Drop(p.Subject)
	c.Status(http.StatusNoContent)
}

// PUT /api/calendar/hotel
func (cc *CalendarController) SelectHotel(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	var req selectHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	id, err := models.ParseHotelKey(req.HotelID)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	if err := s.SelectHotel(ctx, id); err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": s.Grid()})
}

// PUT /api/calendar/date
func (cc *CalendarController) SetDate(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	var req setDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	if err := s.SetDate(ctx, models.MustParseDate(req.Date)); err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": s.Grid()})
}

// PUT /api/calendar/viewport
func (cc *CalendarController) SetViewport(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	reloaded, err := s.Resize(ctx, req.Width)
	if err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": reloaded, "grid": s.Grid()})
}

// POST /api/calendar/reload
func (cc *CalendarController) Reload(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	if err := s.Reload(ctx); err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": s.Grid()})
}

// GET /api/calendar/grid
func (cc *CalendarController) Grid(c *gin.Context) {
	s, _, ok := cc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": s.Grid()})
}

// GET /api/calendar/deleted?start_date=&end_date=
func (cc *CalendarController) DeletedReservations(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	var q dateWindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	start, end := q.window()
	if end.Before(start) {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", services.ErrInvalidDateRange.Error(), nil)
		return
	}
	deleted, err := s.DeletedReservations(ctx, start, end)
	if err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_reservations": recordsOf(deleted)})
}

// POST /api/calendar/click
func (cc *CalendarController) Click(c *gin.Context) {
	s, _, ok := cc.current(c)
	if !ok {
		return
	}
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	half, err := services.ParseCellHalf(req.Half)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	form, err := s.Click(req.Room, models.MustParseDate(req.Date), half)
	if err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

// POST /api/calendar/form/submit
func (cc *CalendarController) SubmitForm(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	var in services.FormInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.badRequest", err.Error(), nil)
		return
	}
	res, err := s.SubmitForm(ctx, in)
	if err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation": models.NewReservationRecord(res),
		"grid":        s.Grid(),
	})
}

// DELETE /api/calendar/form
func (cc *CalendarController) CloseForm(c *gin.Context) {
	s, _, ok := cc.current(c)
	if !ok {
		return
	}
	s.CloseForm()
	c.JSON(http.StatusOK, gin.H{"grid": s.Grid()})
}

// POST /api/calendar/form/delete
func (cc *CalendarController) DeleteReservation(c *gin.Context) {
	s, ctx, ok := cc.current(c)
	if !ok {
		return
	}
	res, err := s.DeleteReservation(ctx)
	if err != nil {
		cc.fail(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation": models.NewReservationRecord(res),
		"grid":        s.Grid(),
	})
}
