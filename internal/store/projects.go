package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

// CreateProject inserts a new project with a random UUID.
func (db *DB) CreateProject(ctx context.Context, p NewProject) (Project, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	status := p.Status
	if status == "" {
		status = analysis.StatusDraft
	}
	if !status.Valid() {
		return Project{}, fmt.Errorf("%w: unknown status %q", ErrInvalidProject, status)
	}

	now := db.now().UTC()
	proj := Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		proj.ID, proj.Name, proj.Description, string(proj.Status),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return proj, nil
}

// GetProject returns the project with the given ID.
func (db *DB) GetProject(ctx context.Context, id string) (Project, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, name, description, status, created_at, updated_at FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return p, err
}

// ListProjects returns projects ordered by most recent update first.
// Archived projects are excluded unless the filter asks for them or filters
// on the archived status.
func (db *DB) ListProjects(ctx context.Context, f ProjectFilter) ([]Project, error) {
	query := "SELECT id, name, description, status, created_at, updated_at FROM projects WHERE 1=1"
	var args []any

	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	} else if !f.IncludeArchived {
		query += " AND status != ?"
		args = append(args, string(analysis.StatusArchived))
	}
	query += " ORDER BY updated_at DESC, name"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetProjectStatus sets a project's status unconditionally. It is a user
// edit and refreshes updated_at.
func (db *DB) SetProjectStatus(ctx context.Context, id string, status analysis.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProject, status)
	}
	res, err := db.conn.ExecContext(ctx,
		"UPDATE projects SET status = ?, updated_at = ? WHERE id = ?",
		string(status), db.stamp(), id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return requireRow(res, id)
}

// UpdateProjectStatus moves a project to next only if its current status is
// one of expected. It leaves updated_at alone so automated transitions do
// not count as project activity. A project in some other status yields
// ErrStatusConflict.
func (db *DB) UpdateProjectStatus(ctx context.Context, id string, expected []analysis.Status, next analysis.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProject, next)
	}

	query := "UPDATE projects SET status = ? WHERE id = ?"
	args := []any{string(next), id}
	if len(expected) > 0 {
		query += " AND status IN (" + placeholders(len(expected)) + ")"
		for _, s := range expected {
			args = append(args, string(s))
		}
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if _, err := db.GetProject(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is no longer %s", ErrStatusConflict, id, joinStatuses(expected))
}

// SetStepStatus records the status of one framework step.
func (db *DB) SetStepStatus(ctx context.Context, id, stepKey string, status analysis.StepStatus) error {
	stepKey = strings.TrimSpace(stepKey)
	if stepKey == "" {
		return fmt.Errorf("%w: step key is required", ErrInvalidProject)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown step status %q", ErrInvalidProject, status)
	}

	return db.withTouch(ctx, id, func(tx *sql.Tx, stamp string) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO steps (project_id, step_key, status, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (project_id, step_key) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
			id, stepKey, string(status), stamp)
		return err
	})
}

// AddTag attaches a tag to a project. Adding an existing tag is a no-op
// apart from refreshing updated_at.
func (db *DB) AddTag(ctx context.Context, id, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag is empty", ErrInvalidProject)
	}
	return db.withTouch(ctx, id, func(tx *sql.Tx, _ string) error {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tags (project_id, tag) VALUES (?, ?)", id, tag)
		return err
	})
}

// AddNote appends a note to a project.
func (db *DB) AddNote(ctx context.Context, id, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("%w: note is empty", ErrInvalidProject)
	}
	return db.withTouch(ctx, id, func(tx *sql.Tx, stamp string) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO notes (project_id, body, created_at) VALUES (?, ?, ?)", id, body, stamp)
		return err
	})
}

// GetProjectSnapshot reads everything analysis.Build needs for one project.
func (db *DB) GetProjectSnapshot(ctx context.Context, id string) (analysis.Snapshot, error) {
	p, err := db.GetProject(ctx, id)
	if err != nil {
		return analysis.Snapshot{}, err
	}

	updated := p.UpdatedAt
	snap := analysis.Snapshot{
		ProjectID:   p.ID,
		Name:        p.Name,
		Status:      p.Status,
		Description: p.Description,
		UpdatedAt:   &updated,
	}

	if snap.Tags, err = db.queryStrings(ctx,
		"SELECT tag FROM tags WHERE project_id = ? ORDER BY tag", id); err != nil {
		return analysis.Snapshot{}, fmt.Errorf("reading tags: %w", err)
	}
	if snap.Notes, err = db.queryStrings(ctx,
		"SELECT body FROM notes WHERE project_id = ? ORDER BY id", id); err != nil {
		return analysis.Snapshot{}, fmt.Errorf("reading notes: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT step_key, status FROM steps WHERE project_id = ? ORDER BY rowid", id)
	if err != nil {
		return analysis.Snapshot{}, fmt.Errorf("reading steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var st analysis.Step
		var status string
		if err := rows.Scan(&st.Key, &status); err != nil {
			return analysis.Snapshot{}, err
		}
		st.Status = analysis.StepStatus(status)
		snap.Steps = append(snap.Steps, st)
	}
	return snap, rows.Err()
}

// withTouch runs fn in a transaction after refreshing the project's
// updated_at. It returns ErrProjectNotFound if the project does not exist.
func (db *DB) withTouch(ctx context.Context, id string, fn func(tx *sql.Tx, stamp string) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stamp := db.stamp()
	res, err := tx.ExecContext(ctx, "UPDATE projects SET updated_at = ? WHERE id = ?", stamp, id)
	if err != nil {
		return err
	}
	if err := requireRow(res, id); err != nil {
		return err
	}
	if err := fn(tx, stamp); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var status, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &createdAt, &updatedAt); err != nil {
		return Project{}, err
	}
	p.Status = analysis.Status(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func joinStatuses(ss []analysis.Status) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
