package models

import "time"

// User is a human account that can own conversations and send messages.
type User struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	Email          string `gorm:"size:255;not null;uniqueIndex"`
	Username       string `gorm:"size:64;not null;uniqueIndex"`
	FullName       string `gorm:"size:200;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsActive       bool   `gorm:"default:true;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Conversations []Conversation `gorm:"foreignKey:CreatedByID"`
	Messages      []Message      `gorm:"foreignKey:SenderUserID"`
}
