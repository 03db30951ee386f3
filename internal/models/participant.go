package models

import "time"

// Participant roles.
const (
	RoleOwner       = "owner"
	RoleParticipant = "participant"
	RoleBot         = "bot"
)

// Participant links a user or a bot to a conversation with a role. Exactly
// one of UserID/BotID is set.
type Participant struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	ConversationID uint   `gorm:"not null;index:idx_conversation_member"`
	UserID         *uint  `gorm:"index:idx_conversation_member"`
	BotID          *uint  `gorm:"index:idx_conversation_member"`
	Role           string `gorm:"size:50;not null;default:participant"`
	JoinedAt       time.Time

	Conversation Conversation `gorm:"foreignKey:ConversationID"`
}
