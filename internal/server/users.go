package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/store"
)

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func handleCreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := store.CreateUser(db, req.Email, req.Username, req.FullName, hashPassword(req.Password))
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewUser(user))
	}
}

func handleListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)
		users, err := store.ListUsers(db, limit, offset)
		if err != nil {
			storeError(c, err)
			return
		}
		views := make([]userView, 0, len(users))
		for i := range users {
			views = append(views, viewUser(&users[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleGetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := store.GetUser(db, id)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewUser(user))
	}
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

func handleUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		// Users may only edit themselves.
		if user.ID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot modify another user"})
			return
		}
		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated, err := store.UpdateUser(db, id, store.UserUpdate{FullName: req.FullName, Email: req.Email})
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewUser(updated))
	}
}

func handleDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := caller(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if user.ID != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another user"})
			return
		}
		if err := store.DeactivateUser(db, id); err != nil {
			storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
