package store

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/parleyhq/parley/internal/models"
)

// testDB opens an in-memory sqlite database with all tables migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Bot{}, &models.Conversation{},
		&models.Participant{}, &models.Message{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedUser creates a user for tests.
func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := CreateUser(db, username+"@example.com", username, "Test "+username, "x")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedBot creates an active bot for tests.
func seedBot(t *testing.T, db *gorm.DB, name string, creator uint) *models.Bot {
	t.Helper()
	bot, err := CreateBot(db, BotCreate{
		Name:        name,
		DisplayName: "Bot " + name,
		APIKey:      "sk-test",
		AutoTrigger: true,
		CreatedByID: creator,
	})
	if err != nil {
		t.Fatalf("seed bot %s: %v", name, err)
	}
	return bot
}

// seedConversation creates a conversation for tests.
func seedConversation(t *testing.T, db *gorm.DB, title string, creator uint) *models.Conversation {
	t.Helper()
	conv, err := CreateConversation(db, title, "", creator)
	if err != nil {
		t.Fatalf("seed conversation %s: %v", title, err)
	}
	return conv
}
