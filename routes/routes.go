package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booking-calendar/controllers"
	"booking-calendar/middleware"
	"booking-calendar/utils"
)

// Controllers holds what SetupRouter mounts; a nil group is not mounted.
type Controllers struct {
	Catalog      *controllers.CatalogController
	Reservations *controllers.ReservationController
	Calendar     *controllers.CalendarController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(ctl Controllers, auth *middleware.Authenticator, corsOrigins []string) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Backend is running"})
	})

	protected := r.Group("/", auth.RequireAuth())

	if ctl.Catalog != nil {
		companies := protected.Group("/companies")
		{
			companies.GET("/", ctl.Catalog.ListCompanies)
			companies.GET("/:id", ctl.Catalog.GetCompany)
		}
	}

	if ctl.Catalog != nil && ctl.Reservations != nil {
		hotels := protected.Group("/hotels")
		{
			hotels.GET("/", ctl.Catalog.ListHotels)
			hotels.GET("/:id", ctl.Catalog.GetHotel)
			hotels.GET("/:id/rooms", ctl.Catalog.ListRooms)

			hotels.GET("/:id/reservations", ctl.Reservations.List)
			hotels.GET("/:id/reservations/deleted", ctl.Reservations.ListDeleted)
			hotels.POST("/:id/reservations", ctl.Reservations.Create)
			hotels.PUT("/:id/reservations/:rid", ctl.Reservations.Update)
			hotels.DELETE("/:id/reservations/:rid", ctl.Reservations.Delete)
		}
	}

	if ctl.Calendar != nil {
		calendar := protected.Group("/api/calendar")
		{
			calendar.POST("/session", ctl.Calendar.StartSession)
			calendar.DELETE("/session", ctl.Calendar.EndSession)
			calendar.PUT("/hotel", ctl.Calendar.SelectHotel)
			calendar.PUT("/date", ctl.Calendar.SetDate)
			calendar.PUT("/viewport", ctl.Calendar.SetViewport)
			calendar.POST("/reload", ctl.Calendar.Reload)
			calendar.GET("/grid", ctl.Calendar.Grid)
			calendar.GET("/deleted", ctl.Calendar.DeletedReservations)
			calendar.POST("/click", ctl.Calendar.Click)
			calendar.POST("/form/submit", ctl.Calendar.SubmitForm)
			calendar.POST("/form/delete", ctl.Calendar.DeleteReservation)
			calendar.DELETE("/form", ctl.Calendar.CloseForm)
		}
	}

	return r
}
