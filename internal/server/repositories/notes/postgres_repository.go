// Package notes contains the PostgreSQL repository for notes.
package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

const noteColumns = `id, user_id, title, content, tags, color, is_favorite, is_locked, is_archived, is_deleted, version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Note) error {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO notes (` + noteColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 `

	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Content, tags, string(n.Color),
		n.IsFavorite, n.IsLocked, n.IsArchived, n.IsDeleted,
		n.Version, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	query :=
		`SELECT ` + noteColumns + ` FROM notes
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	query :=
		`SELECT ` + noteColumns + ` FROM notes
		 WHERE id = $1 AND user_id = $2
		 `
	return scanNote(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID, id string) (*models.Note, error) {
	query :=
		`SELECT ` + noteColumns + ` FROM notes
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE
		 `
	return scanNote(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, n *models.Note) error {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return err
	}

	query :=
		`UPDATE notes SET title = $3, content = $4, tags = $5, color = $6,
		 is_favorite = $7, is_locked = $8, is_archived = $9, is_deleted = $10,
		 version = $11, updated_at = $12
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Content, tags, string(n.Color),
		n.IsFavorite, n.IsLocked, n.IsArchived, n.IsDeleted,
		n.Version, n.UpdatedAt)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	n := &models.Note{}
	var tags []byte
	var color string

	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &tags, &color,
		&n.IsFavorite, &n.IsLocked, &n.IsArchived, &n.IsDeleted,
		&n.Version, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	n.Color = models.Color(color)
	n.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &n.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
