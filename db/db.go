package db

import (
	"fmt"
	"log"

	"github.com/crimepatrol/backend/config"
	"github.com/crimepatrol/backend/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: %s:%d/%s", c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=Asia/Manila",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// GetRedis builds the redis client used for the emergency ping session
// cache.
func GetRedis(c *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
}

func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uuid.New(), Name: models.RoleCitizen},
		{ID: uuid.New(), Name: models.RolePolice},
		{ID: uuid.New(), Name: models.RoleAdmin},
		{ID: uuid.New(), Name: models.RoleResponder},
	}

	for _, role := range roles {
		if err := db.FirstOrCreate(&role, models.Role{Name: role.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedStations loads the Bacolod City police station directory. Station
// rows are matched by name so re-running migrations never duplicates them.
func SeedStations(db *gorm.DB) error {
	stations := []models.PoliceStation{
		{
			ID:             uuid.New(),
			Name:           "Police Station 1",
			Address:        "Bays Center, San Juan Street, Downtown Bacolod",
			Barangay:       "Downtown",
			ContactNumbers: "(034) 703-1673",
			Latitude:       10.6749,
			Longitude:      122.9529,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 2",
			Address:        "Barangay Handumanan, Bacolod City",
			Barangay:       "Handumanan",
			ContactNumbers: "(034) 707-8301",
			Latitude:       10.6633,
			Longitude:      122.9452,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 3",
			Address:        "13th Lacson Street, Barangay Mandalagan, Bacolod City",
			Barangay:       "Mandalagan",
			ContactNumbers: "(034) 434-8177",
			Latitude:       10.6804,
			Longitude:      122.9577,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 4",
			Address:        "Barangay Villamonte, Bacolod City",
			Barangay:       "Villamonte",
			ContactNumbers: "(034) 433-5041, (034) 708-3771, (034) 708-1700",
			Latitude:       10.668,
			Longitude:      122.944,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 5",
			Address:        "Barangay Granada, Bacolod City",
			Barangay:       "Granada",
			ContactNumbers: "(034) 708-8291",
			Latitude:       10.695,
			Longitude:      122.965,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 6",
			Address:        "Barangay Taculing, Bacolod City",
			Barangay:       "Taculing",
			ContactNumbers: "(034) 468-0341",
			Latitude:       10.66,
			Longitude:      122.962,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 7",
			Address:        "Barangay Mansilingan, Bacolod City",
			Barangay:       "Mansilingan",
			ContactNumbers: "(034) 446-2802",
			Latitude:       10.655,
			Longitude:      122.97,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 8",
			Address:        "Barangay Tangub, Bacolod City",
			Barangay:       "Tangub",
			ContactNumbers: "(034) 444-1593",
			Latitude:       10.63,
			Longitude:      122.96,
		},
		{
			ID:             uuid.New(),
			Name:           "Police Station 9",
			Address:        "Barangay Sum-ag, Bacolod City",
			Barangay:       "Sum-ag",
			ContactNumbers: "(034) 444-3155",
			Latitude:       10.61,
			Longitude:      122.955,
		},
	}

	for _, station := range stations {
		var existing models.PoliceStation
		result := db.Where("name = ?", station.Name).First(&existing)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				if err := db.Create(&station).Error; err != nil {
					log.Printf("Failed to create station %s: %v", station.Name, err)
					return err
				}
				continue
			}
			return result.Error
		}

		if err := db.Model(&existing).Updates(map[string]interface{}{
			"address":         station.Address,
			"barangay":        station.Barangay,
			"contact_numbers": station.ContactNumbers,
			"latitude":        station.Latitude,
			"longitude":       station.Longitude,
		}).Error; err != nil {
			log.Printf("Failed to update station %s: %v", station.Name, err)
			return err
		}
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Blacklist{},
		&models.Report{},
		&models.ReportLocation{},
		&models.ReportReporterInfo{},
		&models.ReportVictim{},
		&models.ReportSuspect{},
		&models.ReportWitness{},
		&models.ReportMedia{},
		&models.MediaUpload{},
		&models.EmergencyPing{},
		&models.PoliceStation{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}

	if err := SeedStations(db); err != nil {
		return fmt.Errorf("seeding stations error: %v", err)
	}

	return nil
}
