// Package prompts picks the reflection prompt a user sees for the current
// calendar day. Selection is purely a function of the user, the day and the
// set of prompts already answered, so nothing has to be persisted for
// repeated calls to agree.
package prompts

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

// Selector picks one unanswered prompt per user per UTC calendar day.
type Selector struct {
	DB *gorm.DB
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Selector) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format("2006-01-02")
}

// TodayFor returns today's prompt for the given user, or nil when no prompts
// are configured. userID 0 means anonymous/preview mode: the first prompt is
// returned with no answered-exclusion applied.
func (s *Selector) TodayFor(userID uint) (*models.DailyPrompt, error) {
	if userID == 0 {
		var p models.DailyPrompt
		err := s.DB.Order("category, id").First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: loading prompt: %v", apperr.ErrStore, err)
		}
		return &p, nil
	}

	var answered []uint
	if err := s.DB.Model(&models.PromptResponse{}).
		Where("user_id = ?", userID).
		Distinct("prompt_id").
		Pluck("prompt_id", &answered).Error; err != nil {
		return nil, fmt.Errorf("%w: loading answered prompts: %v", apperr.ErrStore, err)
	}

	q := s.DB.Order("category, id")
	if len(answered) > 0 {
		q = q.Where("id NOT IN ?", answered)
	}
	var unanswered []models.DailyPrompt
	if err := q.Find(&unanswered).Error; err != nil {
		return nil, fmt.Errorf("%w: loading prompts: %v", apperr.ErrStore, err)
	}

	if len(unanswered) == 0 {
		// Everything answered: wrap around and re-surface the prompt tied to
		// the user's oldest response.
		var oldest models.PromptResponse
		err := s.DB.Where("user_id = ?", userID).
			Order("created_at asc, id asc").
			First(&oldest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no prompts configured at all
		}
		if err != nil {
			return nil, fmt.Errorf("%w: loading oldest response: %v", apperr.ErrStore, err)
		}
		var p models.DailyPrompt
		if err := s.DB.First(&p, oldest.PromptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: loading prompt: %v", apperr.ErrStore, err)
		}
		return &p, nil
	}

	seed := daySeed(fmt.Sprintf("%d-%s", userID, s.today()))
	idx := int(abs64(int64(seed))) % len(unanswered)
	return &unanswered[idx], nil
}

// daySeed is a stable order-dependent string hash with int32 wraparound.
// Same user + same day always hashes the same; different days spread out.
func daySeed(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
