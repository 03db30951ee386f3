package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// CreateConversation creates a conversation and adds the creator as an
// owner participant in the same transaction.
func CreateConversation(db *gorm.DB, title, description string, createdByID uint) (*models.Conversation, error) {
	if title == "" {
		return nil, fmt.Errorf("store: conversation title is required")
	}
	if createdByID == 0 {
		return nil, fmt.Errorf("store: conversation creator is required")
	}

	conv := models.Conversation{
		Title:       title,
		Description: description,
		CreatedByID: createdByID,
		IsActive:    true,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		owner := models.Participant{
			ConversationID: conv.ID,
			UserID:         &createdByID,
			Role:           models.RoleOwner,
			JoinedAt:       time.Now(),
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, fmt.Errorf("store: create conversation %q: %w", title, err)
	}
	return &conv, nil
}

// GetConversation fetches an active conversation by ID.
func GetConversation(db *gorm.DB, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&conv).Error; err != nil {
		return nil, fmt.Errorf("store: get conversation %d: %w", id, err)
	}
	return &conv, nil
}

// ListUserConversations returns active conversations the user participates
// in, most recently updated first.
func ListUserConversations(db *gorm.DB, userID uint, limit, offset int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	var convs []models.Conversation
	err := db.Where("is_active = ? AND id IN (?)", true,
		db.Model(&models.Participant{}).Select("conversation_id").Where("user_id = ?", userID),
	).Order("updated_at DESC").Limit(limit).Offset(offset).Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("store: list conversations for user %d: %w", userID, err)
	}
	return convs, nil
}

// DeactivateConversation soft-deletes a conversation and cascades the soft
// delete to its messages. Only the creator may delete a conversation.
func DeactivateConversation(db *gorm.DB, id, userID uint) error {
	conv, err := GetConversation(db, id)
	if err != nil {
		return err
	}
	if conv.CreatedByID != userID {
		return fmt.Errorf("store: conversation %d is not owned by user %d", id, userID)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(conv).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Message{}).Where("conversation_id = ?", id).
			Update("is_active", false).Error
	})
	if err != nil {
		return fmt.Errorf("store: deactivate conversation %d: %w", id, err)
	}
	return nil
}
