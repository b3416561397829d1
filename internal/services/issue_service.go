package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"issuetracker/internal/models"
	"issuetracker/internal/repositories"
	"issuetracker/pkg/rabbitmq"
)

// Listing defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// CreateIssueInput carries the fields for a new issue. Status and Priority
// default to OPEN / MEDIUM when empty.
type CreateIssueInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// UpdateIssueInput is a partial patch: nil fields keep their prior value.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// ListParams narrows and paginates an issue listing.
type ListParams struct {
	Status   string
	Priority string
	Search   string
	Page     int
	Limit    int
}

// IssuePage is one page of a listing. TotalPages is computed from the
// filter-only count, so it is unaffected by the requested page.
type IssuePage struct {
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	Issues     []models.Issue `json:"issues"`
}

// IssueService handles business logic related to issues. Every operation is
// scoped to the owner passed in; the owner comes from the session guard, never
// from the request body.
type IssueService struct {
	repo     repositories.IssueRepository
	mqClient *rabbitmq.Client // nil disables event publication
}

// NewIssueService creates a new IssueService.
func NewIssueService(repo repositories.IssueRepository, mqClient *rabbitmq.Client) *IssueService {
	return &IssueService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Create stores a new issue owned by ownerID. Status defaults to OPEN and
// priority to MEDIUM when not supplied.
func (s *IssueService) Create(ownerID string, in CreateIssueInput) (*models.Issue, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := in.Status
	if status == "" {
		status = models.StatusOpen
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	issue := &models.Issue{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		CreatedBy:   ownerID,
	}
	if err := s.repo.Create(issue); err != nil {
		return nil, err
	}

	s.publishEvent("issue.created", issue)
	return issue, nil
}

// List returns one page of the owner's issues, newest-first. Non-positive page
// or limit fall back to the defaults. A page past the end returns an empty
// issues array with total and totalPages still accurate.
func (s *IssueService) List(ownerID string, p ListParams) (*IssuePage, error) {
	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := p.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	filter := repositories.IssueFilter{
		Status:   p.Status,
		Priority: p.Priority,
		Search:   strings.TrimSpace(p.Search),
	}
	issues, total, err := s.repo.List(ownerID, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &IssuePage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Issues:     issues,
	}, nil
}

// GetByID retrieves a single issue owned by ownerID. A nonexistent ID and an
// ID owned by someone else both return ErrNotFound.
func (s *IssueService) GetByID(ownerID, id string) (*models.Issue, error) {
	issue, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

// Update applies a partial patch to an issue owned by ownerID. Only non-nil
// fields change; the rest keep their prior value.
func (s *IssueService) Update(ownerID, id string, in UpdateIssueInput) (*models.Issue, error) {
	issue, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		issue.Title = title
	}
	if in.Description != nil {
		issue.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		issue.Status = *in.Status
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
	}

	if err := s.repo.Update(issue); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publishEvent("issue.updated", issue)
	return issue, nil
}

// Delete permanently removes an issue owned by ownerID.
func (s *IssueService) Delete(ownerID, id string) error {
	issue, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ownerID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publishEvent("issue.deleted", issue)
	return nil
}

// Summary returns per-status counts of the owner's issues. All three status
// keys are always present, defaulting to 0, regardless of what the store
// reports.
func (s *IssueService) Summary(ownerID string) (map[string]int64, error) {
	counts, err := s.repo.CountByStatus(ownerID)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]int64, len(models.Statuses))
	for _, status := range models.Statuses {
		summary[status] = counts[status]
	}
	return summary, nil
}

// publishEvent sends an issue lifecycle event to the message queue. Publication
// is best-effort: a missing client or a publish failure is logged and never
// fails the request.
func (s *IssueService) publishEvent(event string, issue *models.Issue) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":    event,
		"issueID":  issue.ID,
		"userID":   issue.CreatedBy,
		"status":   issue.Status,
		"priority": issue.Priority,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for issue %s: %v", event, issue.ID, err)
		return
	}

	if err := s.mqClient.Publish(body); err != nil {
		log.Printf("Warning: failed to publish %s event for issue %s: %v", event, issue.ID, err)
	} else {
		log.Printf("Published %s event for issue %s", event, issue.ID)
	}
}
