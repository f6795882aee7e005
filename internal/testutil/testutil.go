// Package testutil provides in-memory database fixtures for service and
// handler tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/models"
)

var dbCounter int64

// SetupTestDB opens a fresh in-memory database, migrates the schema and
// installs it as the package-global connection until the test ends. Each
// call gets its own database so tests stay independent.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return db
}

// NewUser inserts a participant with the given primary role ("" for none)
// and skill names.
func NewUser(t *testing.T, db *gorm.DB, username, role string, ready bool, skillNames ...string) *models.User {
	t.Helper()

	user := models.User{
		Username:    username,
		FullName:    username + " test",
		ReadyToWork: ready,
	}
	if role != "" {
		r := models.Role(role)
		user.MainRole = &r
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	// GORM skips zero-valued fields that carry a default tag on insert, so an
	// explicit false must be written separately or the column stays true.
	if !ready {
		if err := db.Model(&user).Update("ready_to_work", false).Error; err != nil {
			t.Fatalf("set ready_to_work for %s: %v", username, err)
		}
	}

	for _, name := range skillNames {
		name = strings.ToLower(name)
		var skill models.Skill
		if err := db.Where("name = ?", name).First(&skill).Error; err != nil {
			skill = models.Skill{Name: name}
			if err := db.Create(&skill).Error; err != nil {
				t.Fatalf("create skill %s: %v", name, err)
			}
		}
		if err := db.Model(&user).Association("Skills").Append(&skill); err != nil {
			t.Fatalf("attach skill %s: %v", name, err)
		}
	}

	if err := db.Preload("Skills").First(&user, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user %s: %v", username, err)
	}
	return &user
}

// NewHackathon inserts an active event with a valid date window.
func NewHackathon(t *testing.T, db *gorm.DB, title string) *models.Hackathon {
	t.Helper()

	now := time.Now()
	hackathon := models.Hackathon{
		Title:                title,
		StartDate:            now.Add(7 * 24 * time.Hour),
		EndDate:              now.Add(9 * 24 * time.Hour),
		RegistrationDeadline: now.Add(6 * 24 * time.Hour),
		IsActive:             true,
	}
	if err := db.Create(&hackathon).Error; err != nil {
		t.Fatalf("create hackathon %s: %v", title, err)
	}
	return &hackathon
}

// NewTeam inserts a team and puts the captain on the roster.
func NewTeam(t *testing.T, db *gorm.DB, hackathon *models.Hackathon, captain *models.User, name string) *models.Team {
	t.Helper()

	team := models.Team{
		Name:        name,
		HackathonID: hackathon.ID,
		CaptainID:   captain.ID,
		IsLooking:   true,
	}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", captain.ID).
		Update("team_id", team.ID).Error; err != nil {
		t.Fatalf("assign captain to %s: %v", name, err)
	}
	return &team
}
