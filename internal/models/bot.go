package models

import "time"

// Temperature bounds for bots. Stored as an integer scaled by 100, so 70
// means a logical temperature of 0.7.
const (
	TemperatureMin = 0
	TemperatureMax = 200
)

// Bot is a configured AI participant. Bots are soft-deleted only and are
// mutable solely by their creator.
type Bot struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	DisplayName string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	AvatarURL   string `gorm:"size:500"`

	ModelName    string `gorm:"size:100;not null;default:gpt-4o-mini"`
	Provider     string `gorm:"size:50;not null;default:openai"`
	SystemPrompt string `gorm:"type:text"`
	Temperature  int    `gorm:"not null;default:70"`
	MaxTokens    int    `gorm:"not null;default:1000"`

	IsActive    bool `gorm:"default:true;index"`
	IsPublic    bool `gorm:"default:false"`
	AutoTrigger bool `gorm:"default:true"`

	APIKey     string `gorm:"size:500"`
	APIBaseURL string `gorm:"size:500"`
	Config     string `gorm:"type:json"`

	CreatedByID uint `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LogicalTemperature converts the stored scaled integer to the 0.0–2.0
// range the provider API expects.
func (b *Bot) LogicalTemperature() float32 {
	return float32(b.Temperature) / 100.0
}
