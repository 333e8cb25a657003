// Package noteversions contains the PostgreSQL repository for note history.
package noteversions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.NoteVersion) error {
	query :=
		`INSERT INTO note_versions (id, note_id, version, title, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, v.ID, v.NoteID, v.Version, v.Title, v.Content, v.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByNote(ctx context.Context, noteID string) ([]*models.NoteVersion, error) {
	query :=
		`SELECT id, note_id, version, title, content, created_at FROM note_versions
		 WHERE note_id = $1
		 ORDER BY version DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.NoteVersion, 0)
	for rows.Next() {
		v := &models.NoteVersion{}
		if err := rows.Scan(&v.ID, &v.NoteID, &v.Version, &v.Title, &v.Content, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
