package store

import (
	"context"
	"fmt"
)

// InsertAutomationEvent appends a row to the automation audit log. A zero
// CreatedAt is stamped with the store clock.
func (db *DB) InsertAutomationEvent(ctx context.Context, ev AutomationEvent) error {
	stamp := db.stamp()
	if !ev.CreatedAt.IsZero() {
		stamp = formatTime(ev.CreatedAt)
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO automation_events (project_id, rule_id, state, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ev.ProjectID, ev.RuleID, ev.State, ev.Detail, stamp,
	)
	if err != nil {
		return fmt.Errorf("inserting automation event: %w", err)
	}
	return nil
}

// ListAutomationEvents returns the newest events first. An empty projectID
// lists events for all projects; limit <= 0 means no limit.
func (db *DB) ListAutomationEvents(ctx context.Context, projectID string, limit int) ([]AutomationEvent, error) {
	query := "SELECT id, project_id, rule_id, state, detail, created_at FROM automation_events WHERE 1=1"
	var args []any

	if projectID != "" {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []AutomationEvent
	for rows.Next() {
		var ev AutomationEvent
		var detail *string
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.ProjectID, &ev.RuleID, &ev.State, &detail, &createdAt); err != nil {
			return nil, err
		}
		if detail != nil {
			ev.Detail = *detail
		}
		ev.CreatedAt = parseTime(createdAt)
		out = append(out, ev)
	}
	return out, rows.Err()
}
