package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// MessageCreate holds parameters for persisting a message. Exactly one of
// SenderUserID/SenderBotID must be set.
type MessageCreate struct {
	ConversationID uint
	Content        string
	SenderUserID   *uint
	SenderBotID    *uint
	Transcript     string // forwarded-history blob, bot messages only
}

// validate rejects malformed messages before any write.
func (c MessageCreate) validate() error {
	if c.ConversationID == 0 {
		return fmt.Errorf("store: conversation is required")
	}
	if c.Content == "" {
		return fmt.Errorf("store: message content is required")
	}
	if len(c.Content) > models.MaxContentLength {
		return fmt.Errorf("store: message content exceeds %d characters", models.MaxContentLength)
	}
	if c.SenderUserID == nil && c.SenderBotID == nil {
		return fmt.Errorf("store: message requires a sender")
	}
	if c.SenderUserID != nil && c.SenderBotID != nil {
		return fmt.Errorf("store: message cannot have both a user and a bot sender")
	}
	if c.Transcript != "" && c.SenderBotID == nil {
		return fmt.Errorf("store: transcript blob is only valid on bot messages")
	}
	return nil
}

// CreateMessage persists a message after sender-exclusivity validation.
func CreateMessage(db *gorm.DB, create MessageCreate) (*models.Message, error) {
	if err := create.validate(); err != nil {
		return nil, err
	}
	if _, err := GetConversation(db, create.ConversationID); err != nil {
		return nil, err
	}

	msg := models.Message{
		Content:        create.Content,
		ConversationID: create.ConversationID,
		SenderUserID:   create.SenderUserID,
		SenderBotID:    create.SenderBotID,
		BotTranscript:  create.Transcript,
		IsActive:       true,
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("store: create message in conversation %d: %w", create.ConversationID, err)
	}
	return &msg, nil
}

// CreateUserMessage persists a human-authored message.
func CreateUserMessage(db *gorm.DB, conversationID, userID uint, content string) (*models.Message, error) {
	return CreateMessage(db, MessageCreate{
		ConversationID: conversationID,
		Content:        content,
		SenderUserID:   &userID,
	})
}

// CreateBotMessage persists a bot-authored message with an optional
// forwarded-history blob.
func CreateBotMessage(db *gorm.DB, conversationID, botID uint, content, transcriptBlob string) (*models.Message, error) {
	return CreateMessage(db, MessageCreate{
		ConversationID: conversationID,
		Content:        content,
		SenderBotID:    &botID,
		Transcript:     transcriptBlob,
	})
}

// GetMessage fetches an active message by ID.
func GetMessage(db *gorm.DB, id uint) (*models.Message, error) {
	var msg models.Message
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&msg).Error; err != nil {
		return nil, fmt.Errorf("store: get message %d: %w", id, err)
	}
	return &msg, nil
}

// ListConversationMessages returns active messages for a conversation,
// newest first, paginated.
func ListConversationMessages(db *gorm.DB, conversationID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var msgs []models.Message
	if err := db.Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("store: list messages for conversation %d: %w", conversationID, err)
	}
	return msgs, nil
}

// RecentContext returns the most recent N active messages for a
// conversation in chronological order, oldest first: the bounded window the
// context builder consumes.
func RecentContext(db *gorm.DB, conversationID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	var msgs []models.Message
	if err := db.Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("store: recent context for conversation %d: %w", conversationID, err)
	}
	// Reverse to oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// RecentContextExcluding is RecentContext with one message left out, used
// when the excluded message is appended separately as the current turn.
func RecentContextExcluding(db *gorm.DB, conversationID, excludeID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	var msgs []models.Message
	if err := db.Where("conversation_id = ? AND is_active = ? AND id <> ?", conversationID, true, excludeID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("store: recent context for conversation %d: %w", conversationID, err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// UpdateMessageContent edits a message. Only the sending user may edit.
func UpdateMessageContent(db *gorm.DB, id, userID uint, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("store: message content is required")
	}
	if len(content) > models.MaxContentLength {
		return nil, fmt.Errorf("store: message content exceeds %d characters", models.MaxContentLength)
	}
	msg, err := GetMessage(db, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderUserID == nil || *msg.SenderUserID != userID {
		return nil, fmt.Errorf("store: message %d is not owned by user %d", id, userID)
	}
	msg.Content = content
	msg.UpdatedAt = time.Now()
	if err := db.Save(msg).Error; err != nil {
		return nil, fmt.Errorf("store: update message %d: %w", id, err)
	}
	return msg, nil
}

// DeactivateMessage soft-deletes a message. Only the sending user may
// delete.
func DeactivateMessage(db *gorm.DB, id, userID uint) error {
	msg, err := GetMessage(db, id)
	if err != nil {
		return err
	}
	if msg.SenderUserID == nil || *msg.SenderUserID != userID {
		return fmt.Errorf("store: message %d is not owned by user %d", id, userID)
	}
	if err := db.Model(msg).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("store: deactivate message %d: %w", id, err)
	}
	return nil
}
