package models

import "time"

// Issue statuses. Transitions are unconstrained: any status may be set to any
// other status in a single update.
const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Issue priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Statuses lists every issue status. Order matters for summary output.
var Statuses = []string{StatusOpen, StatusInProgress, StatusDone}

// Issue represents a tracked issue. Every issue belongs to exactly one user
// (CreatedBy), assigned at creation and never reassigned.
type Issue struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string    `json:"description" gorm:"type:varchar(1000)" validate:"omitempty,max=1000"`
	Status      string    `json:"status" gorm:"type:varchar(20);index" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Priority    string    `json:"priority" gorm:"type:varchar(20);index" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CreatedBy   string    `json:"createdBy" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
