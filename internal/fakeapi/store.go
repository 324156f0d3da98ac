// Package fakeapi is a stateful in-memory fake of the automations backend
// contract. It exists for client tests and local sandboxing; the real
// backend lives outside this repository.
package fakeapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/google/uuid"
)

type store struct {
	mu          sync.RWMutex
	automations map[string]*models.Automation
}

func newStore() *store {
	return &store{automations: make(map[string]*models.Automation)}
}

func (s *store) list(status models.AutomationStatus, search string, page, limit int) ([]models.Automation, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Automation, 0, len(s.automations))

	for _, a := range s.automations {
		if status != "" && a.Status != status {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(search)) {
			continue
		}

		matched = append(matched, *a)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if page < 1 {
		page = 1
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.Automation{}, total
	}

	end := start + limit
	if end > total {
		end = total
	}

	return matched[start:end], total
}

func (s *store) get(id string) (*models.Automation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.automations[id]
	if !ok {
		return nil, false
	}

	clone := *a

	return &clone, true
}

func (s *store) create(a *models.Automation) *models.Automation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	a.ID = uuid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now

	if a.Status == "" {
		a.Status = models.AutomationStatusInactive
	}

	s.automations[a.ID] = a
	clone := *a

	return &clone
}

func (s *store) update(id string, a *models.Automation) (*models.Automation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.automations[id]
	if !ok {
		return nil, false
	}

	a.ID = id
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	if a.Status == "" {
		a.Status = existing.Status
	}

	s.automations[id] = a
	clone := *a

	return &clone, true
}

func (s *store) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.automations[id]; !ok {
		return false
	}

	delete(s.automations, id)

	return true
}

func (s *store) toggle(id string) (*models.Automation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.automations[id]
	if !ok {
		return nil, false
	}

	a.Status = a.ToggledStatus()
	a.UpdatedAt = time.Now().UTC()
	clone := *a

	return &clone, true
}
