package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/dispatch"
	"github.com/parleyhq/parley/internal/models"
	"github.com/parleyhq/parley/internal/store"
)

// callerHeader carries the acting user's ID. The value is trusted as-is;
// authentication sits in front of this service.
const callerHeader = "X-User-ID"

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, responder *dispatch.Responder) {
	router.GET("/health", handleHealth(db))

	api := router.Group("/api")

	api.POST("/users", handleCreateUser(db))
	api.GET("/users", handleListUsers(db))
	api.GET("/users/:id", handleGetUser(db))
	api.PUT("/users/:id", handleUpdateUser(db))
	api.DELETE("/users/:id", handleDeleteUser(db))

	api.POST("/bots", handleCreateBot(db))
	api.GET("/bots", handleListBots(db))
	api.GET("/bots/:id", handleGetBot(db))
	api.PUT("/bots/:id", handleUpdateBot(db))
	api.DELETE("/bots/:id", handleDeleteBot(db))

	api.POST("/conversations", handleCreateConversation(db))
	api.GET("/conversations", handleListConversations(db))
	api.GET("/conversations/:id", handleGetConversation(db))
	api.DELETE("/conversations/:id", handleDeleteConversation(db))

	api.GET("/conversations/:id/participants", handleListParticipants(db))
	api.POST("/conversations/:id/participants", handleAddParticipant(db))
	api.DELETE("/conversations/:id/participants/:pid", handleRemoveParticipant(db))

	api.GET("/conversations/:id/messages", handleListMessages(db))
	api.POST("/conversations/:id/messages", handlePostMessage(db, responder))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

// caller resolves the acting user from the request header. A missing or
// unknown caller aborts the request with 401.
func caller(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	raw := c.GetHeader(callerHeader)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + callerHeader + " header"})
		return nil, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid " + callerHeader + " header"})
		return nil, false
	}
	user, err := store.GetUser(db, uint(id))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return nil, false
	}
	return user, true
}

// pathID parses a numeric path parameter, aborting with 400 on garbage.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// storeError maps a store failure to an HTTP response.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pageParams reads limit/offset query parameters with defaults.
func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
