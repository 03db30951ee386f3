package server

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
	"github.com/parleyhq/parley/internal/store"
)

// scaleTemperature converts an API temperature (0.0–2.0) to storage form.
func scaleTemperature(t float64) int {
	return int(math.Round(t * 100))
}

type createBotRequest struct {
	Name         string   `json:"name" binding:"required"`
	DisplayName  string   `json:"display_name" binding:"required"`
	Description  string   `json:"description"`
	AvatarURL    string   `json:"avatar_url"`
	ModelName    string   `json:"model_name"`
	Provider     string   `json:"provider"`
	SystemPrompt string   `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    int      `json:"max_tokens"`
	IsPublic     bool     `json:"is_public"`
	AutoTrigger  *bool    `json:"auto_trigger"`
	APIKey       string   `json:"api_key"`
	APIBaseURL   string   `json:"api_base_url"`
	Config       string   `json:"config"`
}

func handleCreateBot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		var req createBotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		create := store.BotCreate{
			Name:         req.Name,
			DisplayName:  req.DisplayName,
			Description:  req.Description,
			AvatarURL:    req.AvatarURL,
			ModelName:    req.ModelName,
			Provider:     req.Provider,
			SystemPrompt: req.SystemPrompt,
			MaxTokens:    req.MaxTokens,
			IsPublic:     req.IsPublic,
			AutoTrigger:  true,
			APIKey:       req.APIKey,
			APIBaseURL:   req.APIBaseURL,
			Config:       req.Config,
			CreatedByID:  user.ID,
		}
		if req.Temperature != nil {
			create.Temperature = scaleTemperature(*req.Temperature)
		}
		if req.AutoTrigger != nil {
			create.AutoTrigger = *req.AutoTrigger
		}
		bot, err := store.CreateBot(db, create)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewBot(bot))
	}
}

func handleListBots(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			bots []models.Bot
			err  error
		)
		if c.Query("mine") != "" {
			user, ok := caller(c, db)
			if !ok {
				return
			}
			bots, err = store.ListBotsByCreator(db, user.ID)
		} else {
			bots, err = store.ListActiveBots(db)
		}
		if err != nil {
			storeError(c, err)
			return
		}
		views := make([]botView, 0, len(bots))
		for i := range bots {
			views = append(views, viewBot(&bots[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleGetBot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		bot, err := store.GetBot(db, id)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewBot(bot))
	}
}

type updateBotRequest struct {
	DisplayName  *string  `json:"display_name"`
	Description  *string  `json:"description"`
	SystemPrompt *string  `json:"system_prompt"`
	ModelName    *string  `json:"model_name"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"max_tokens"`
	IsPublic     *bool    `json:"is_public"`
	AutoTrigger  *bool    `json:"auto_trigger"`
}

func handleUpdateBot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateBotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update := store.BotUpdate{
			DisplayName:  req.DisplayName,
			Description:  req.Description,
			SystemPrompt: req.SystemPrompt,
			ModelName:    req.ModelName,
			MaxTokens:    req.MaxTokens,
			IsPublic:     req.IsPublic,
			AutoTrigger:  req.AutoTrigger,
		}
		if req.Temperature != nil {
			scaled := scaleTemperature(*req.Temperature)
			update.Temperature = &scaled
		}
		bot, err := store.UpdateBot(db, id, user.ID, update)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewBot(bot))
	}
}

func handleDeleteBot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := store.DeactivateBot(db, id, user.ID); err != nil {
			storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
