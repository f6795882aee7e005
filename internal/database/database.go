package database

import (
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Initialize(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	DB = db
	log.Println("Database connected successfully")

	if err := AutoMigrate(db); err != nil {
		return err
	}

	if err := seedSkills(db); err != nil {
		log.Printf("Warning: seed data error: %v", err)
	}

	return nil
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Achievement{},
		&models.Hackathon{},
		&models.Team{},
		&models.TeamRequest{},
		&models.Request{},
	)
}

// seedSkills inserts a baseline skill catalog so profile editing has
// something to autocomplete against.
func seedSkills(db *gorm.DB) error {
	var count int64
	db.Model(&models.Skill{}).Count(&count)
	if count > 0 {
		return nil
	}

	names := []string{
		"python", "go", "javascript", "typescript", "java", "kotlin",
		"swift", "sql", "docker", "kubernetes", "react", "vue",
		"figma", "ui/ux", "product management", "data analysis",
		"machine learning", "devops",
	}
	for _, name := range names {
		skill := models.Skill{Name: strings.ToLower(name)}
		if err := db.Create(&skill).Error; err != nil {
			return err
		}
	}
	log.Println("Seeded skill catalog")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
