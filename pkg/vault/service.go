// Package vault grants and revokes view access to individual memories.
// A share is never deleted; revoking stamps RevokedAt so the history stays
// queryable, and only unrevoked rows gate visibility.
package vault

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

type Service struct {
	DB *gorm.DB
}

// Share grants sharedWithID view access to memoryID. The caller must own the
// memory, the recipient must exist, and no active share for the same pair may
// exist. A previously revoked share does not block a fresh one.
func (s *Service) Share(memoryID, ownerID, sharedWithID uint) (*models.SharedMemory, error) {
	if sharedWithID == ownerID {
		return nil, fmt.Errorf("%w: you cannot share a memory with yourself", apperr.ErrValidation)
	}

	var mem models.Memory
	err := s.DB.First(&mem, memoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: memory not found", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading memory: %v", apperr.ErrStore, err)
	}
	if mem.UserID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can share a memory", apperr.ErrAuthorization)
	}

	// The recipient must be a real account; otherwise a typoed id would leave
	// a share row pointing at nobody.
	var recipients int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", sharedWithID).Count(&recipients).Error; err != nil {
		return nil, fmt.Errorf("%w: checking recipient: %v", apperr.ErrStore, err)
	}
	if recipients == 0 {
		return nil, fmt.Errorf("%w: recipient not found", apperr.ErrNotFound)
	}

	var existing models.SharedMemory
	err = s.DB.
		Where("memory_id = ? AND shared_with_id = ? AND revoked_at IS NULL", memoryID, sharedWithID).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: memory is already shared with that person", apperr.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: checking existing share: %v", apperr.ErrStore, err)
	}

	share := models.SharedMemory{
		MemoryID:     memoryID,
		OwnerID:      ownerID,
		SharedWithID: sharedWithID,
		Permission:   models.PermissionView,
	}
	if err := s.DB.Create(&share).Error; err != nil {
		return nil, fmt.Errorf("%w: creating share: %v", apperr.ErrStore, err)
	}
	return &share, nil
}

// Revoke marks a share inactive. Owner only; revoking twice is a conflict.
func (s *Service) Revoke(shareID, ownerID uint) error {
	var share models.SharedMemory
	err := s.DB.First(&share, shareID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: share not found", apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: loading share: %v", apperr.ErrStore, err)
	}
	if share.OwnerID != ownerID {
		return fmt.Errorf("%w: only the owner can revoke a share", apperr.ErrAuthorization)
	}
	if share.RevokedAt != nil {
		return fmt.Errorf("%w: share is already revoked", apperr.ErrConflict)
	}
	now := time.Now().UTC()
	if err := s.DB.Model(&share).Update("revoked_at", &now).Error; err != nil {
		return fmt.Errorf("%w: revoking share: %v", apperr.ErrStore, err)
	}
	return nil
}

// CanView reports whether userID may see the memory: the owner always can,
// anyone else needs an active share. IsPrivate only governs ambient
// visibility, never an explicit share.
func (s *Service) CanView(mem *models.Memory, userID uint) (bool, error) {
	if mem.UserID == userID {
		return true, nil
	}
	var count int64
	err := s.DB.Model(&models.SharedMemory{}).
		Where("memory_id = ? AND shared_with_id = ? AND revoked_at IS NULL", mem.ID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: checking share: %v", apperr.ErrStore, err)
	}
	return count > 0, nil
}

// SharedWith lists active shares granting userID access, with memories
// preloaded, newest first.
func (s *Service) SharedWith(userID uint) ([]models.SharedMemory, error) {
	var shares []models.SharedMemory
	err := s.DB.Preload("Memory").Preload("Memory.Media").Preload("Memory.Tags").
		Where("shared_with_id = ? AND revoked_at IS NULL", userID).
		Order("created_at desc, id desc").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing shares: %v", apperr.ErrStore, err)
	}
	return shares, nil
}

// SharedBy lists active shares the user has granted to others, newest first.
func (s *Service) SharedBy(ownerID uint) ([]models.SharedMemory, error) {
	var shares []models.SharedMemory
	err := s.DB.Preload("Memory").
		Where("owner_id = ? AND revoked_at IS NULL", ownerID).
		Order("created_at desc, id desc").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing shares: %v", apperr.ErrStore, err)
	}
	return shares, nil
}
