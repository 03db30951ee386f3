package models

import "time"

// MaxContentLength bounds message text, matching the column size.
const MaxContentLength = 2000

// Message is one unit of conversation content. The sender is polymorphic:
// exactly one of SenderUserID/SenderBotID is set, never both, never neither.
// Bot-authored messages may carry a BotTranscript blob, a JSON array of
// agent turns recorded when the reply was generated, so later invocations
// can splice the structured history back in instead of re-deriving it.
type Message struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	Content        string `gorm:"size:2000;not null"`
	ConversationID uint   `gorm:"not null;index"`
	SenderUserID   *uint  `gorm:"index"`
	SenderBotID    *uint  `gorm:"index"`
	BotTranscript  string `gorm:"type:text"`
	IsActive       bool   `gorm:"default:true;index"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Conversation Conversation `gorm:"foreignKey:ConversationID"`
	SenderUser   *User        `gorm:"foreignKey:SenderUserID"`
	SenderBot    *Bot         `gorm:"foreignKey:SenderBotID"`
}

// FromUser reports whether the message was authored by a human.
func (m *Message) FromUser() bool { return m.SenderUserID != nil }

// FromBot reports whether the message was authored by a bot.
func (m *Message) FromBot() bool { return m.SenderBotID != nil }
