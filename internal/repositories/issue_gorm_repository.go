package repositories

import (
	"errors"
	"fmt"
	"strings"

	"issuetracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMIssueRepository is a GORM implementation of IssueRepository.
type GORMIssueRepository struct {
	db *gorm.DB
}

// NewGORMIssueRepository creates a new instance of GORMIssueRepository.
func NewGORMIssueRepository(db *gorm.DB) *GORMIssueRepository {
	return &GORMIssueRepository{
		db: db,
	}
}

// scoped returns a fresh query restricted to the owner's issues. Every method
// below goes through it (or repeats the conjunction), so an unscoped issue
// query cannot be built from this repository.
func (r *GORMIssueRepository) scoped(ownerID string) *gorm.DB {
	return r.db.Model(&models.Issue{}).Where("created_by = ?", ownerID)
}

// applyFilter adds the optional status/priority/search predicates to a query.
// Search is a case-insensitive substring match on title or description; LOWER
// keeps the behavior identical across sqlite and postgres.
func applyFilter(q *gorm.DB, filter IssueFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return q
}

// Create inserts a new issue.
func (r *GORMIssueRepository) Create(issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	if err := r.db.Create(issue).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

// GetByID retrieves a single issue owned by ownerID.
func (r *GORMIssueRepository) GetByID(ownerID, id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.scoped(ownerID).First(&issue, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get issue by ID %s: %w", id, err)
	}
	return &issue, nil
}

// List returns one page of the owner's issues, newest-first, plus the total
// count matching the filter. The count runs before offset/limit, so a page
// past the end yields an empty slice with the total still accurate.
func (r *GORMIssueRepository) List(ownerID string, filter IssueFilter, offset, limit int) ([]models.Issue, int64, error) {
	var total int64
	if err := applyFilter(r.scoped(ownerID), filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	issues := []models.Issue{}
	err := applyFilter(r.scoped(ownerID), filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&issues).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, total, nil
}

// Update persists all fields of an already-loaded issue. The owner conjunction
// is repeated here so the write can never cross owners. On success the struct
// is reloaded from the store, so the caller sees the refreshed updated_at.
func (r *GORMIssueRepository) Update(issue *models.Issue) error {
	res := r.db.Model(&models.Issue{}).
		Where("id = ? AND created_by = ?", issue.ID, issue.CreatedBy).
		Select("*").
		Updates(issue)
	if res.Error != nil {
		return fmt.Errorf("failed to update issue: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := r.scoped(issue.CreatedBy).First(issue, "id = ?", issue.ID).Error; err != nil {
		return fmt.Errorf("failed to reload issue after update: %w", err)
	}
	return nil
}

// Delete permanently removes an issue owned by ownerID.
func (r *GORMIssueRepository) Delete(ownerID, id string) error {
	res := r.db.Delete(&models.Issue{}, "id = ? AND created_by = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete issue: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns per-status counts of the owner's issues via a group-by.
// Statuses with zero issues are absent; the service layer backfills them.
func (r *GORMIssueRepository) CountByStatus(ownerID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.scoped(ownerID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
