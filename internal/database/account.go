package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/utilities"
)

// CreateAccount inserts user and its default preferences in one transaction.
// user.Password must already be hashed.
func CreateAccount(db *gorm.DB, user *model.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Preferences", "CandidateProfile").Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		prefs := model.NewUserPreferences(user.ID)
		if err := tx.Create(prefs).Error; err != nil {
			return fmt.Errorf("failed to create preferences: %w", err)
		}
		user.Preferences = prefs
		return nil
	})
}

// CreateAdmin creates an admin user with the given username and password.
func CreateAdmin(db *gorm.DB, username string, password string) (*model.User, error) {
	hashedPassword, err := utilities.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := model.NewUser()
	admin.Username = username
	admin.Password = hashedPassword
	admin.UserType = model.RoleAdmin
	admin.IsStaff = true

	if err := CreateAccount(db, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// RandomString returns a random hex string of n bytes.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
