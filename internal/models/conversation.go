package models

import "time"

// Conversation is an ordered container of messages with a participant list.
// The creator is added as an owner participant at creation time.
type Conversation struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:200;not null;index"`
	Description string `gorm:"size:500"`
	CreatedByID uint   `gorm:"not null;index"`
	IsActive    bool   `gorm:"default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Participants []Participant `gorm:"foreignKey:ConversationID"`
	Messages     []Message     `gorm:"foreignKey:ConversationID"`
}
