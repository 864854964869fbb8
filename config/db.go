package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/models"
)

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

// ResolveMySQLDSN prefers MYSQL_URL / DATABASE_URL and falls back to DB_* parts.
func ResolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "boarding_sky")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := ResolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  newLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	sqlDB.SetMaxOpenConns(envInt("DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(envInt("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Airline{},
		&models.Car{},
		&models.Hotel{},
		&models.Tour{},
		&models.Blog{},
		&models.Deal{},
		&models.FlightOffer{},
		&models.HotelOffer{},
		&models.CarOffer{},
		&models.SiteConfig{},
		&models.Page{},
	)
}

// SeedDatabase creates the singleton documents and the first admin. It never
// overwrites existing rows.
func SeedDatabase(db *gorm.DB, adminEmail string) {
	var cfg models.SiteConfig
	err := db.First(&cfg, models.SiteConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.SiteConfig{
			ID:       models.SiteConfigID,
			Currency: "USD",
			Services: datatypes.NewJSONType(models.ServiceSettings{}),
		}
		if err := db.Create(&cfg).Error; err != nil {
			log.Printf("warning: failed to seed site config: %v", err)
		} else {
			log.Println("Site config seeded")
		}
	} else if err != nil {
		log.Printf("warning: failed to read site config: %v", err)
	}

	pages := []models.Page{
		{Slug: models.PagePrivacyPolicy, Title: "Privacy Policy"},
		{Slug: models.PageTermsAndConditions, Title: "Terms and Conditions"},
	}
	for i := range pages {
		var count int64
		db.Model(&models.Page{}).Where("slug = ?", pages[i].Slug).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&pages[i]).Error; err != nil {
			log.Printf("warning: failed to seed page %s: %v", pages[i].Slug, err)
		}
	}

	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))
	if adminEmail == "" {
		return
	}
	var admin models.User
	err = db.Where("email = ?", adminEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = models.User{Email: adminEmail, Role: string(access.RoleAdmin)}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("warning: failed to create default admin: %v", err)
		} else {
			log.Println("Default admin seeded")
		}
	case err != nil:
		log.Printf("warning: failed to look up default admin: %v", err)
	case access.NormalizeRole(admin.Role) != access.RoleAdmin:
		if err := db.Model(&admin).Update("role", string(access.RoleAdmin)).Error; err != nil {
			log.Printf("warning: failed to promote default admin: %v", err)
		}
	}
}
