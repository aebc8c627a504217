package main

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

// RegisterUser creates the account and its profile together, mirroring the
// one-to-one lifecycle: a user always has a profile. Bad input is a
// validation error; a taken email is a conflict.
func RegisterUser(email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email required", apperr.ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password too short (min 8)", apperr.ErrValidation)
	}
	if len(password) > 72 { // bcrypt input limit
		return fmt.Errorf("%w: password too long (max 72)", apperr.ErrValidation)
	}
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", apperr.ErrValidation)
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return fmt.Errorf("%w: account already exists", apperr.ErrConflict)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: hashing password: %v", apperr.ErrStore, err)
	}
	user := models.User{Email: email, HashedPassword: hashedPassword}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return fmt.Errorf("%w: account already exists", apperr.ErrConflict)
		}
		return fmt.Errorf("%w: creating account: %v", apperr.ErrStore, err)
	}
	profile := models.Profile{UserID: user.ID, FullName: fullName}
	if err := db.Create(&profile).Error; err != nil {
		return fmt.Errorf("%w: creating profile: %v", apperr.ErrStore, err)
	}
	return nil
}

func Authenticate(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
