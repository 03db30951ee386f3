package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// BotCreate holds parameters for registering a bot.
type BotCreate struct {
	Name         string
	DisplayName  string
	Description  string
	AvatarURL    string
	ModelName    string // defaults to gpt-4o-mini
	Provider     string // defaults to openai
	SystemPrompt string
	Temperature  int // scaled ×100; defaults to 70
	MaxTokens    int // defaults to 1000
	IsPublic     bool
	AutoTrigger  bool
	APIKey       string
	APIBaseURL   string
	Config       string
	CreatedByID  uint
}

// CreateBot registers a new bot owned by its creator.
func CreateBot(db *gorm.DB, create BotCreate) (*models.Bot, error) {
	if create.Name == "" {
		return nil, fmt.Errorf("store: bot name is required")
	}
	if create.DisplayName == "" {
		return nil, fmt.Errorf("store: bot display name is required")
	}
	if create.CreatedByID == 0 {
		return nil, fmt.Errorf("store: bot creator is required")
	}
	if create.Temperature < models.TemperatureMin || create.Temperature > models.TemperatureMax {
		return nil, fmt.Errorf("store: bot temperature %d out of range %d-%d",
			create.Temperature, models.TemperatureMin, models.TemperatureMax)
	}

	bot := models.Bot{
		Name:         create.Name,
		DisplayName:  create.DisplayName,
		Description:  create.Description,
		AvatarURL:    create.AvatarURL,
		ModelName:    create.ModelName,
		Provider:     create.Provider,
		SystemPrompt: create.SystemPrompt,
		Temperature:  create.Temperature,
		MaxTokens:    create.MaxTokens,
		IsActive:     true,
		IsPublic:     create.IsPublic,
		AutoTrigger:  create.AutoTrigger,
		APIKey:       create.APIKey,
		APIBaseURL:   create.APIBaseURL,
		Config:       create.Config,
		CreatedByID:  create.CreatedByID,
	}
	if bot.ModelName == "" {
		bot.ModelName = "gpt-4o-mini"
	}
	if bot.Provider == "" {
		bot.Provider = "openai"
	}
	if bot.Temperature == 0 {
		bot.Temperature = 70
	}
	if bot.MaxTokens == 0 {
		bot.MaxTokens = 1000
	}

	if err := db.Create(&bot).Error; err != nil {
		return nil, fmt.Errorf("store: create bot %s: %w", create.Name, err)
	}
	return &bot, nil
}

// GetBot fetches an active bot by ID.
func GetBot(db *gorm.DB, id uint) (*models.Bot, error) {
	var bot models.Bot
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&bot).Error; err != nil {
		return nil, fmt.Errorf("store: get bot %d: %w", id, err)
	}
	return &bot, nil
}

// GetBotByName fetches an active bot by its unique name, full configuration
// and credentials included.
func GetBotByName(db *gorm.DB, name string) (*models.Bot, error) {
	if name == "" {
		return nil, fmt.Errorf("store: bot name is required")
	}
	var bot models.Bot
	if err := db.Where("name = ? AND is_active = ?", name, true).First(&bot).Error; err != nil {
		return nil, fmt.Errorf("store: get bot %s: %w", name, err)
	}
	return &bot, nil
}

// ListActiveBots returns all active bots ordered by ID ascending. The
// ordering is load-bearing: bot selection picks the lowest ID first.
func ListActiveBots(db *gorm.DB) ([]models.Bot, error) {
	var bots []models.Bot
	if err := db.Where("is_active = ?", true).Order("id").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("store: list active bots: %w", err)
	}
	return bots, nil
}

// ListBotsByCreator returns active bots owned by a user.
func ListBotsByCreator(db *gorm.DB, userID uint) ([]models.Bot, error) {
	var bots []models.Bot
	if err := db.Where("created_by_id = ? AND is_active = ?", userID, true).
		Order("id").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("store: list bots for user %d: %w", userID, err)
	}
	return bots, nil
}

// BotUpdate holds optional bot fields to change.
type BotUpdate struct {
	DisplayName  *string
	Description  *string
	SystemPrompt *string
	ModelName    *string
	Temperature  *int
	MaxTokens    *int
	IsPublic     *bool
	AutoTrigger  *bool
}

// UpdateBot applies an update to a bot. Only the creator may modify a bot.
func UpdateBot(db *gorm.DB, id, userID uint, update BotUpdate) (*models.Bot, error) {
	bot, err := GetBot(db, id)
	if err != nil {
		return nil, err
	}
	if bot.CreatedByID != userID {
		return nil, fmt.Errorf("store: bot %d is not owned by user %d", id, userID)
	}
	if update.Temperature != nil {
		if *update.Temperature < models.TemperatureMin || *update.Temperature > models.TemperatureMax {
			return nil, fmt.Errorf("store: bot temperature %d out of range %d-%d",
				*update.Temperature, models.TemperatureMin, models.TemperatureMax)
		}
		bot.Temperature = *update.Temperature
	}
	if update.DisplayName != nil {
		bot.DisplayName = *update.DisplayName
	}
	if update.Description != nil {
		bot.Description = *update.Description
	}
	if update.SystemPrompt != nil {
		bot.SystemPrompt = *update.SystemPrompt
	}
	if update.ModelName != nil {
		bot.ModelName = *update.ModelName
	}
	if update.MaxTokens != nil {
		bot.MaxTokens = *update.MaxTokens
	}
	if update.IsPublic != nil {
		bot.IsPublic = *update.IsPublic
	}
	if update.AutoTrigger != nil {
		bot.AutoTrigger = *update.AutoTrigger
	}
	bot.UpdatedAt = time.Now()
	if err := db.Save(bot).Error; err != nil {
		return nil, fmt.Errorf("store: update bot %d: %w", id, err)
	}
	return bot, nil
}

// DeactivateBot soft-deletes a bot. Only the creator may delete a bot; bots
// are never hard-deleted here.
func DeactivateBot(db *gorm.DB, id, userID uint) error {
	bot, err := GetBot(db, id)
	if err != nil {
		return err
	}
	if bot.CreatedByID != userID {
		return fmt.Errorf("store: bot %d is not owned by user %d", id, userID)
	}
	if err := db.Model(bot).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("store: deactivate bot %d: %w", id, err)
	}
	return nil
}
