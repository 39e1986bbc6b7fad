// Package store provides SQLite persistence for projects, their framework
// steps, tags and notes, and the automation audit log.
package store

import (
	"errors"
	"time"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

var (
	// ErrProjectNotFound is returned when no project has the given ID.
	ErrProjectNotFound = errors.New("project not found")

	// ErrStatusConflict is returned by UpdateProjectStatus when the project's
	// current status is not one of the expected statuses.
	ErrStatusConflict = errors.New("project status changed")

	// ErrInvalidProject is returned when project fields fail validation.
	ErrInvalidProject = errors.New("invalid project")
)

// Project is a stored project row.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      analysis.Status `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProject holds the fields for CreateProject. An empty Status means
// draft.
type NewProject struct {
	Name        string
	Description string
	Status      analysis.Status
}

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	Status          analysis.Status
	IncludeArchived bool
}

// AutomationEvent is one row of the automation audit log.
type AutomationEvent struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	RuleID    string    `json:"rule_id"`
	State     string    `json:"state"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
