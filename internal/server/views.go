package server

import (
	"time"

	"github.com/parleyhq/parley/internal/models"
)

// Views are the wire shapes. Credentials (password hashes, API keys,
// provider config blobs) never leave the process.

type userView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func viewUser(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

type botView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	ModelName    string    `json:"model_name"`
	Provider     string    `json:"provider"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Temperature  float32   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	IsPublic     bool      `json:"is_public"`
	AutoTrigger  bool      `json:"auto_trigger"`
	CreatedByID  uint      `json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewBot(b *models.Bot) botView {
	return botView{
		ID:           b.ID,
		Name:         b.Name,
		DisplayName:  b.DisplayName,
		Description:  b.Description,
		AvatarURL:    b.AvatarURL,
		ModelName:    b.ModelName,
		Provider:     b.Provider,
		SystemPrompt: b.SystemPrompt,
		Temperature:  b.LogicalTemperature(),
		MaxTokens:    b.MaxTokens,
		IsPublic:     b.IsPublic,
		AutoTrigger:  b.AutoTrigger,
		CreatedByID:  b.CreatedByID,
		CreatedAt:    b.CreatedAt,
	}
}

type conversationView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func viewConversation(conv *models.Conversation) conversationView {
	return conversationView{
		ID:          conv.ID,
		Title:       conv.Title,
		Description: conv.Description,
		CreatedByID: conv.CreatedByID,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
}

type participantView struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	UserID         *uint     `json:"user_id,omitempty"`
	BotID          *uint     `json:"bot_id,omitempty"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at"`
}

func viewParticipant(p *models.Participant) participantView {
	return participantView{
		ID:             p.ID,
		ConversationID: p.ConversationID,
		UserID:         p.UserID,
		BotID:          p.BotID,
		Role:           p.Role,
		JoinedAt:       p.JoinedAt,
	}
}

type messageView struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	Content        string    `json:"content"`
	SenderUserID   *uint     `json:"sender_user_id,omitempty"`
	SenderBotID    *uint     `json:"sender_bot_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func viewMessage(m *models.Message) messageView {
	return messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		SenderUserID:   m.SenderUserID,
		SenderBotID:    m.SenderBotID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
