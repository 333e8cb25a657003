// Package tasks contains the PostgreSQL repository for tasks.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

const taskColumns = `id, user_id, title, description, due_date, priority, completed, is_locked, is_deleted, version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Task) error {
	query :=
		`INSERT INTO tasks (` + taskColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err := r.db.ExecContext(ctx, query, taskArgs(t)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE user_id = $1 AND NOT is_deleted
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2 AND NOT is_deleted
		 `
	return scanTask(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID, id string) (*models.Task, error) {
	query :=
		`SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2 AND NOT is_deleted
		 FOR UPDATE
		 `
	return scanTask(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Task) error {
	query :=
		`UPDATE tasks SET title = $3, description = $4, due_date = $5, priority = $6,
		 completed = $7, is_locked = $8, is_deleted = $9, version = $10, updated_at = $11
		 WHERE id = $1 AND user_id = $2
		 `

	args := taskArgs(t)
	// created_at is never rewritten.
	args = append(args[:10], t.UpdatedAt)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func taskArgs(t *models.Task) []any {
	var desc sql.NullString
	if t.Description != nil {
		desc = sql.NullString{String: *t.Description, Valid: true}
	}
	var due sql.NullTime
	if t.DueDate != nil {
		due = sql.NullTime{Time: *t.DueDate, Valid: true}
	}
	var locked sql.NullBool
	if t.IsLocked != nil {
		locked = sql.NullBool{Bool: *t.IsLocked, Valid: true}
	}
	return []any{
		t.ID, t.UserID, t.Title, desc, due, int64(t.Priority),
		t.Completed, locked, t.IsDeleted, t.Version, t.CreatedAt, t.UpdatedAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	t := &models.Task{}
	var (
		desc     sql.NullString
		due      sql.NullTime
		locked   sql.NullBool
		priority int64
	)

	err := s.Scan(&t.ID, &t.UserID, &t.Title, &desc, &due, &priority,
		&t.Completed, &locked, &t.IsDeleted, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Priority = models.Priority(priority)
	if desc.Valid {
		t.Description = &desc.String
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	if locked.Valid {
		t.IsLocked = &locked.Bool
	}
	return t, nil
}
