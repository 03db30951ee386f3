package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/dispatch"
	"github.com/parleyhq/parley/internal/store"
)

func handleListMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		limit, offset := pageParams(c)
		msgs, err := store.ListConversationMessages(db, id, limit, offset)
		if err != nil {
			storeError(c, err)
			return
		}
		views := make([]messageView, 0, len(msgs))
		for i := range msgs {
			views = append(views, viewMessage(&msgs[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type postMessageResponse struct {
	Message messageView  `json:"message"`
	Reply   *messageView `json:"reply,omitempty"`
}

// handlePostMessage saves a human message, then runs the bot pipeline. A
// pipeline failure is logged, never surfaced: the human message is already
// durable, and the client can re-fetch the conversation.
func handlePostMessage(db *gorm.DB, responder *dispatch.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req postMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, err := store.CreateUserMessage(db, id, user.ID, req.Content)
		if err != nil {
			storeError(c, err)
			return
		}

		resp := postMessageResponse{Message: viewMessage(msg)}
		reply, err := responder.HandleMessage(c.Request.Context(), msg)
		if err != nil {
			log.Printf("server: pipeline for message %d: %v", msg.ID, err)
		} else if reply != nil {
			v := viewMessage(reply)
			resp.Reply = &v
		}
		c.JSON(http.StatusCreated, resp)
	}
}
