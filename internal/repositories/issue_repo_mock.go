package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"issuetracker/internal/models"

	"github.com/google/uuid"
)

// MockIssueRepository is an in-memory implementation of IssueRepository. It
// mirrors the GORM implementation's semantics (owner scoping, newest-first
// ordering, filter-only count) and is used where a database is unwanted.
type MockIssueRepository struct {
	issues map[string]models.Issue
	mu     sync.RWMutex
}

// NewMockIssueRepository creates a new instance of MockIssueRepository.
func NewMockIssueRepository() *MockIssueRepository {
	return &MockIssueRepository{
		issues: make(map[string]models.Issue),
	}
}

// Create adds a new issue.
func (r *MockIssueRepository) Create(issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	now := time.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = now
	r.issues[issue.ID] = *issue
	return nil
}

// GetByID returns an issue owned by ownerID.
func (r *MockIssueRepository) GetByID(ownerID, id string) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, ok := r.issues[id]
	if !ok || issue.CreatedBy != ownerID {
		return nil, ErrNotFound
	}
	return &issue, nil
}

// List returns one page of the owner's issues, newest-first, plus the total
// count matching the filter.
func (r *MockIssueRepository) List(ownerID string, filter IssueFilter, offset, limit int) ([]models.Issue, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Issue{}
	for _, issue := range r.issues {
		if issue.CreatedBy != ownerID {
			continue
		}
		if filter.Status != "" && issue.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && issue.Priority != filter.Priority {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(issue.Title), needle) &&
				!strings.Contains(strings.ToLower(issue.Description), needle) {
				continue
			}
		}
		matched = append(matched, issue)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Issue{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// Update replaces an existing issue owned by the issue's creator.
func (r *MockIssueRepository) Update(issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.issues[issue.ID]
	if !ok || existing.CreatedBy != issue.CreatedBy {
		return ErrNotFound
	}
	issue.UpdatedAt = time.Now()
	r.issues[issue.ID] = *issue
	return nil
}

// Delete removes an issue owned by ownerID.
func (r *MockIssueRepository) Delete(ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[id]
	if !ok || issue.CreatedBy != ownerID {
		return ErrNotFound
	}
	delete(r.issues, id)
	return nil
}

// CountByStatus returns per-status counts of the owner's issues. Statuses with
// zero issues are absent, matching the GORM implementation.
func (r *MockIssueRepository) CountByStatus(ownerID string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, issue := range r.issues {
		if issue.CreatedBy == ownerID {
			counts[issue.Status]++
		}
	}
	return counts, nil
}
