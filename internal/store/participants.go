package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// AddUserParticipant adds a user to a conversation with the given role.
func AddUserParticipant(db *gorm.DB, conversationID, userID uint, role string) (*models.Participant, error) {
	if role == "" {
		role = models.RoleParticipant
	}
	if _, err := GetConversation(db, conversationID); err != nil {
		return nil, err
	}
	if _, err := GetUser(db, userID); err != nil {
		return nil, err
	}

	var existing int64
	db.Model(&models.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).Count(&existing)
	if existing > 0 {
		return nil, fmt.Errorf("store: user %d already in conversation %d", userID, conversationID)
	}

	p := models.Participant{
		ConversationID: conversationID,
		UserID:         &userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("store: add user %d to conversation %d: %w", userID, conversationID, err)
	}
	return &p, nil
}

// AddBotParticipant adds a bot to a conversation with the bot role.
func AddBotParticipant(db *gorm.DB, conversationID, botID uint) (*models.Participant, error) {
	if _, err := GetConversation(db, conversationID); err != nil {
		return nil, err
	}
	if _, err := GetBot(db, botID); err != nil {
		return nil, err
	}

	var existing int64
	db.Model(&models.Participant{}).
		Where("conversation_id = ? AND bot_id = ?", conversationID, botID).Count(&existing)
	if existing > 0 {
		return nil, fmt.Errorf("store: bot %d already in conversation %d", botID, conversationID)
	}

	p := models.Participant{
		ConversationID: conversationID,
		BotID:          &botID,
		Role:           models.RoleBot,
		JoinedAt:       time.Now(),
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("store: add bot %d to conversation %d: %w", botID, conversationID, err)
	}
	return &p, nil
}

// ListParticipants returns a conversation's participants in join order.
func ListParticipants(db *gorm.DB, conversationID uint) ([]models.Participant, error) {
	var participants []models.Participant
	if err := db.Where("conversation_id = ?", conversationID).
		Order("joined_at").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("store: list participants for conversation %d: %w", conversationID, err)
	}
	return participants, nil
}

// UpdateParticipantRole changes a participant's role. The owner's role is
// fixed, and ownership cannot be granted this way.
func UpdateParticipantRole(db *gorm.DB, conversationID, participantID uint, role string) (*models.Participant, error) {
	if role == "" {
		return nil, fmt.Errorf("store: participant role is required")
	}
	if role == models.RoleOwner {
		return nil, fmt.Errorf("store: cannot grant the owner role")
	}

	var p models.Participant
	if err := db.Where("id = ? AND conversation_id = ?", participantID, conversationID).
		First(&p).Error; err != nil {
		return nil, fmt.Errorf("store: participant %d not found in conversation %d: %w", participantID, conversationID, err)
	}
	if p.Role == models.RoleOwner {
		return nil, fmt.Errorf("store: cannot change the owner's role in conversation %d", conversationID)
	}

	p.Role = role
	if err := db.Save(&p).Error; err != nil {
		return nil, fmt.Errorf("store: update participant %d role: %w", participantID, err)
	}
	return &p, nil
}

// RemoveParticipant deletes a participant row. Owners cannot be removed.
func RemoveParticipant(db *gorm.DB, conversationID, participantID uint) error {
	var p models.Participant
	if err := db.Where("id = ? AND conversation_id = ?", participantID, conversationID).
		First(&p).Error; err != nil {
		return fmt.Errorf("store: participant %d not found in conversation %d: %w", participantID, conversationID, err)
	}
	if p.Role == models.RoleOwner {
		return fmt.Errorf("store: cannot remove the owner from conversation %d", conversationID)
	}
	if err := db.Delete(&p).Error; err != nil {
		return fmt.Errorf("store: remove participant %d: %w", participantID, err)
	}
	return nil
}
