// Package documents provides the PostgreSQL-backed document repository of
// the registo document server.
package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/dbx"
	"github.com/dmitrijs2005/registo/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	query := `INSERT INTO documents (id, collection, data) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, doc.ID, doc.Collection, string(data)).Scan(&doc.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, collection, orderBy string, desc bool) ([]*models.Document, error) {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	query := `SELECT id, collection, data, created_at FROM documents WHERE collection = $1 ORDER BY created_at ` + dir + `, id`
	args := []any{collection}
	if orderBy != "" {
		query = `SELECT id, collection, data, created_at FROM documents WHERE collection = $1 ORDER BY data->>$2 ` + dir + `, created_at ` + dir + `, id`
		args = append(args, orderBy)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var (
			doc models.Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Collection, &raw, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
		result = append(result, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Notify(ctx context.Context, collection string) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, ChangeChannel, collection); err != nil {
		return fmt.Errorf("notify error: %w", err)
	}
	return nil
}
