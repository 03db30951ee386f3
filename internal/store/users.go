// Package store provides persistence operations over GORM for users, bots,
// conversations, participants, and messages. Rows are soft-deleted via the
// is_active flag; hard deletion is left to the retention sweeper.
package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parleyhq/parley/internal/models"
)

// CreateUser inserts a new user account.
func CreateUser(db *gorm.DB, email, username, fullName, hashedPassword string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("store: email is required")
	}
	if username == "" {
		return nil, fmt.Errorf("store: username is required")
	}
	if fullName == "" {
		return nil, fmt.Errorf("store: full name is required")
	}

	user := models.User{
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("store: create user %s: %w", username, err)
	}
	return &user, nil
}

// GetUser fetches an active user by ID.
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&user).Error; err != nil {
		return nil, fmt.Errorf("store: get user %d: %w", id, err)
	}
	return &user, nil
}

// ListUsers returns active users, paginated, ordered by ID.
func ListUsers(db *gorm.DB, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	var users []models.User
	if err := db.Where("is_active = ?", true).
		Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

// UserUpdate holds optional user fields to change.
type UserUpdate struct {
	FullName *string
	Email    *string
}

// UpdateUser applies an update to an active user.
func UpdateUser(db *gorm.DB, id uint, update UserUpdate) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	user.UpdatedAt = time.Now()
	if err := db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("store: update user %d: %w", id, err)
	}
	return user, nil
}

// DeactivateUser soft-deletes a user.
func DeactivateUser(db *gorm.DB, id uint) error {
	result := db.Model(&models.User{}).Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("store: deactivate user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: user not found: %d", id)
	}
	return nil
}
