package repositories

import "issuetracker/internal/models"

// IssueFilter narrows an owner-scoped issue listing. Zero values mean "no
// constraint". Search matches title or description, case-insensitively.
type IssueFilter struct {
	Status   string
	Priority string
	Search   string
}

// IssueRepository defines the interface for issue data access. Every read and
// mutation except Create takes the owner ID and is scoped to it, so a caller
// can never observe or touch another owner's issues. A lookup that matches no
// owned record returns ErrNotFound regardless of whether the record exists
// under a different owner.
type IssueRepository interface {
	Create(issue *models.Issue) error
	GetByID(ownerID, id string) (*models.Issue, error)
	// List returns one page of the owner's issues, newest-first, plus the total
	// count of issues matching the filter before offset/limit are applied.
	List(ownerID string, filter IssueFilter, offset, limit int) ([]models.Issue, int64, error)
	Update(issue *models.Issue) error
	Delete(ownerID, id string) error
	// CountByStatus returns per-status counts of the owner's issues. Statuses
	// with no issues may be absent from the map.
	CountByStatus(ownerID string) (map[string]int64, error)
}
