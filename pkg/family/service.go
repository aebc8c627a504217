// Package family governs the lifecycle of a connection between two users.
// A connection row is directed (requester -> recipient) but the relationship
// is undirected: either party sees it among "my connections", and duplicate
// checks look at both orderings of the pair.
package family

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

// DefaultLabel is used when an invite omits the relationship label.
const DefaultLabel = "Family"

type Service struct {
	DB *gorm.DB
}

// Request creates a pending connection from requesterID to the user holding
// the given email address. The lookup deliberately selects only the id, so
// nothing else about the account leaks to the requester.
//
// A pair with a declined row may be re-requested; only pending and accepted
// rows block a new invite.
func (s *Service) Request(requesterID uint, email, label string) (*models.FamilyConnection, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperr.ErrValidation)
	}

	recipientID, err := s.findUserIDByEmail(email)
	if err != nil {
		return nil, err
	}
	if recipientID == requesterID {
		return nil, fmt.Errorf("%w: you cannot invite yourself", apperr.ErrValidation)
	}

	var existing models.FamilyConnection
	err = s.DB.
		Where("((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))",
			requesterID, recipientID, recipientID, requesterID).
		Where("status <> ?", models.ConnectionDeclined).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.ConnectionAccepted {
			return nil, fmt.Errorf("%w: you are already connected", apperr.ErrConflict)
		}
		return nil, fmt.Errorf("%w: connection request already pending", apperr.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: checking existing connection: %v", apperr.ErrStore, err)
	}

	if strings.TrimSpace(label) == "" {
		label = DefaultLabel
	}
	conn := models.FamilyConnection{
		RequesterID:       requesterID,
		RecipientID:       recipientID,
		RelationshipLabel: label,
		Status:            models.ConnectionPending,
	}
	if err := s.DB.Create(&conn).Error; err != nil {
		return nil, fmt.Errorf("%w: creating connection: %v", apperr.ErrStore, err)
	}
	return &conn, nil
}

// Accept transitions a pending request to accepted. Recipient only.
func (s *Service) Accept(userID, connectionID uint) (*models.FamilyConnection, error) {
	return s.resolve(userID, connectionID, models.ConnectionAccepted, "accept")
}

// Decline transitions a pending request to declined. Recipient only.
func (s *Service) Decline(userID, connectionID uint) (*models.FamilyConnection, error) {
	return s.resolve(userID, connectionID, models.ConnectionDeclined, "decline")
}

func (s *Service) resolve(userID, connectionID uint, status, verb string) (*models.FamilyConnection, error) {
	conn, err := s.load(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.RecipientID != userID {
		return nil, fmt.Errorf("%w: only the recipient can %s a request", apperr.ErrAuthorization, verb)
	}
	if conn.Status != models.ConnectionPending {
		return nil, fmt.Errorf("%w: request is no longer pending", apperr.ErrConflict)
	}
	if err := s.DB.Model(conn).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("%w: updating connection: %v", apperr.ErrStore, err)
	}
	conn.Status = status
	return conn, nil
}

// Delete removes a connection row outright. While still pending only the
// requester may cancel; once accepted either party may remove it. Declined
// rows stay put.
func (s *Service) Delete(userID, connectionID uint) error {
	conn, err := s.load(connectionID)
	if err != nil {
		return err
	}
	switch conn.Status {
	case models.ConnectionPending:
		if conn.RequesterID != userID {
			return fmt.Errorf("%w: only the requester can cancel a pending request", apperr.ErrAuthorization)
		}
	case models.ConnectionAccepted:
		if conn.RequesterID != userID && conn.RecipientID != userID {
			return fmt.Errorf("%w: not your connection", apperr.ErrAuthorization)
		}
	default:
		return fmt.Errorf("%w: a %s connection cannot be removed", apperr.ErrConflict, conn.Status)
	}
	if err := s.DB.Delete(conn).Error; err != nil {
		return fmt.Errorf("%w: deleting connection: %v", apperr.ErrStore, err)
	}
	return nil
}

// ListFor returns every connection the user is part of, on either side,
// newest first.
func (s *Service) ListFor(userID uint) ([]models.FamilyConnection, error) {
	var conns []models.FamilyConnection
	err := s.DB.
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc, id desc").
		Find(&conns).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing connections: %v", apperr.ErrStore, err)
	}
	return conns, nil
}

// ConnectedIDs returns the ids of users with an accepted connection to userID.
func (s *Service) ConnectedIDs(userID uint) ([]uint, error) {
	conns, err := s.ListFor(userID)
	if err != nil {
		return nil, err
	}
	var ids []uint
	for _, c := range conns {
		if c.Status != models.ConnectionAccepted {
			continue
		}
		if c.RequesterID == userID {
			ids = append(ids, c.RecipientID)
		} else {
			ids = append(ids, c.RequesterID)
		}
	}
	return ids, nil
}

func (s *Service) load(connectionID uint) (*models.FamilyConnection, error) {
	var conn models.FamilyConnection
	err := s.DB.First(&conn, connectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: connection not found", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading connection: %v", apperr.ErrStore, err)
	}
	return &conn, nil
}

func (s *Service) findUserIDByEmail(email string) (uint, error) {
	var ids []uint
	err := s.DB.Model(&models.User{}).
		Where("email = ?", email).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("%w: looking up user: %v", apperr.ErrStore, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no account with that email", apperr.ErrNotFound)
	}
	return ids[0], nil
}
