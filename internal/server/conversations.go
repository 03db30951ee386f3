package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/store"
)

type createConversationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func handleCreateConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		conv, err := store.CreateConversation(db, req.Title, req.Description, user.ID)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewConversation(conv))
	}
}

func handleListConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		limit, offset := pageParams(c)
		convs, err := store.ListUserConversations(db, user.ID, limit, offset)
		if err != nil {
			storeError(c, err)
			return
		}
		views := make([]conversationView, 0, len(convs))
		for i := range convs {
			views = append(views, viewConversation(&convs[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleGetConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		conv, err := store.GetConversation(db, id)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewConversation(conv))
	}
}

func handleDeleteConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := store.DeactivateConversation(db, id, user.ID); err != nil {
			storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type addParticipantRequest struct {
	UserID *uint  `json:"user_id"`
	BotID  *uint  `json:"bot_id"`
	Role   string `json:"role"`
}

func handleAddParticipant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := caller(c, db); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req addParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if (req.UserID == nil) == (req.BotID == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of user_id or bot_id is required"})
			return
		}
		if req.UserID != nil {
			participant, err := store.AddUserParticipant(db, id, *req.UserID, req.Role)
			if err != nil {
				storeError(c, err)
				return
			}
			c.JSON(http.StatusCreated, viewParticipant(participant))
			return
		}
		participant, err := store.AddBotParticipant(db, id, *req.BotID)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewParticipant(participant))
	}
}

func handleListParticipants(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		participants, err := store.ListParticipants(db, id)
		if err != nil {
			storeError(c, err)
			return
		}
		views := make([]participantView, 0, len(participants))
		for i := range participants {
			views = append(views, viewParticipant(&participants[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleRemoveParticipant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := caller(c, db); !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		pid, ok := pathID(c, "pid")
		if !ok {
			return
		}
		if err := store.RemoveParticipant(db, id, pid); err != nil {
			storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
