package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"booking-calendar/models"
	"booking-calendar/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase inserts a demo company with one hotel and its rooms when the
// tables are empty.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CompanyEntity{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Catalog already seeded")
		return nil
	}

	company := models.CompanyEntity{ID: "comp1", Name: "Demo Company"}
	hotels := []models.HotelEntity{
		{ID: "hotel1", CompanyID: company.ID, Name: "Hotel Central", SortNumber: 1},
		{ID: "hotel2", CompanyID: company.ID, Name: "Hotel Lake", SortNumber: 2},
	}
	var rooms []models.RoomEntity
	for _, h := range hotels {
		for floor := 0; floor <= 2; floor++ {
			for n := 1; n <= 4; n++ {
				number := fmt.Sprintf("%d%02d", floor, n)
				if floor == 0 {
					number = fmt.Sprintf("%d", n)
				}
				rooms = append(rooms, models.RoomEntity{
					ID:       h.ID + "-" + number,
					HotelID:  h.ID,
					Number:   number,
					Type:     "Double",
					IsActive: true,
				})
			}
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&company).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&hotels).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rooms).Error; err != nil {
			return err
		}
		log.Printf("Seeded company %s with %d hotels and %d rooms", company.ID, len(hotels), len(rooms))
		return nil
	})
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveDialector picks the gorm dialect from the environment: a postgres://
// URL selects Postgres, anything else is treated as MySQL.
func ResolveDialector() (gorm.Dialector, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	return dialectorFor(raw)
}

func dialectorFor(raw string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return postgres.Open(raw), nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSNFromURL(raw)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case raw != "":
		return mysql.Open(raw), nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "booking_calendar")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return mysql.Open(dsn), nil
}

// OpenDatabase connects and migrates the store schema.
func OpenDatabase(dialector gorm.Dialector) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger, TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.CompanyEntity{},
		&models.HotelEntity{},
		&models.RoomEntity{},
		&models.ReservationEntity{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func ConnectDatabase(seed bool) error {
	dialector, err := ResolveDialector()
	if err != nil {
		return err
	}
	db, err := OpenDatabase(dialector)
	if err != nil {
		return err
	}
	DB = db

	if seed {
		if err := SeedDatabase(DB); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
