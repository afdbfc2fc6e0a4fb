package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/sportsbuddy/sportsbuddy/internal/models"
	"github.com/sportsbuddy/sportsbuddy/pkg/config"
	"github.com/sportsbuddy/sportsbuddy/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.MatchAudit{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_sport_active ON users(sport, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_lat_lng ON users(latitude, longitude)",
		"CREATE INDEX IF NOT EXISTS idx_venues_lat_lng ON venues(latitude, longitude)",
		"CREATE INDEX IF NOT EXISTS idx_match_audits_user_created ON match_audits(user_id, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"match_audits",
		"venues",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// Synthetic dataset covering the major Indian metros the app launched in
var (
	firstNames = []string{
		"Aarav", "Vivaan", "Aditya", "Arjun", "Sai", "Krishna", "Ishaan", "Dhruv", "Kabir", "Anirudh",
		"Ananya", "Saanvi", "Aadhya", "Prisha", "Myra", "Diya", "Kiara", "Anushka", "Tara", "Navya",
		"Rahul", "Amit", "Priya", "Sneha", "Rohan", "Neha", "Vikram", "Pooja", "Karan", "Anjali",
	}
	lastNames = []string{
		"Sharma", "Verma", "Gupta", "Singh", "Kumar", "Patel", "Shah", "Mehta", "Joshi", "Rao",
		"Nair", "Reddy", "Agarwal", "Kapoor", "Malhotra", "Chopra", "Yadav", "Mishra", "Das", "Kulkarni",
	}
	sports = []string{
		"Cricket", "Football", "Hockey", "Badminton", "Tennis", "Table Tennis", "Kabaddi",
		"Basketball", "Volleyball", "Swimming", "Running", "Squash", "Chess",
	}
	skillLevels = []string{
		models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced, models.SkillProfessional,
	}
	weekdays   = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	timeRanges = []string{"06:00-08:00", "07:00-09:00", "17:00-19:00", "18:00-20:00", "19:00-21:00"}

	cities = []struct {
		name             string
		latMin, latMax   float64
		lngMin, lngMax   float64
	}{
		{"Mumbai", 18.87, 19.27, 72.77, 72.97},
		{"Delhi", 28.50, 28.80, 76.95, 77.35},
		{"Bangalore", 12.85, 13.10, 77.45, 77.75},
		{"Hyderabad", 17.30, 17.55, 78.35, 78.55},
		{"Chennai", 12.95, 13.20, 80.15, 80.30},
		{"Kolkata", 22.45, 22.65, 88.30, 88.45},
		{"Pune", 18.45, 18.65, 73.75, 73.95},
		{"Jaipur", 26.80, 27.00, 75.70, 75.90},
	}
)

func seedData(db *database.DB) error {
	rng := rand.New(rand.NewSource(42))

	const userCount = 2000
	users := make([]models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		city := cities[rng.Intn(len(cities))]
		user := models.User{
			Name:       firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Sport:      sports[rng.Intn(len(sports))],
			SkillLevel: skillLevels[rng.Intn(len(skillLevels))],
			Age:        18 + rng.Intn(37),
			City:       city.name,
			Latitude:   city.latMin + rng.Float64()*(city.latMax-city.latMin),
			Longitude:  city.lngMin + rng.Float64()*(city.lngMax-city.lngMin),
			Rating:     3.0 + rng.Float64()*2.0,
			IsActive:   rng.Float64() < 0.85,
		}

		// Roughly a third of users never filled in availability
		if rng.Float64() < 0.67 {
			dayCount := 2 + rng.Intn(3)
			days := make(pq.StringArray, 0, dayCount)
			for _, idx := range rng.Perm(len(weekdays))[:dayCount] {
				days = append(days, weekdays[idx])
			}
			user.Availability = models.Availability{
				Days:      days,
				TimeRange: timeRanges[rng.Intn(len(timeRanges))],
			}
		}

		users = append(users, user)
	}

	if err := db.CreateInBatches(users, 200).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	venues := make([]models.Venue, 0, len(cities))
	for _, city := range cities {
		venues = append(venues, models.Venue{
			Name:      city.name + " Sports Complex",
			City:      city.name,
			Latitude:  (city.latMin + city.latMax) / 2,
			Longitude: (city.lngMin + city.lngMax) / 2,
		})
	}

	if err := db.Create(&venues).Error; err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	logrus.Infof("Seeded %d users and %d venues", len(users), len(venues))
	return nil
}
