package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/dbx"
)

const (
	selectSlotSQL = `SELECT value FROM metadata WHERE key = ?`

	upsertSlotSQL = `
INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	copySlotSQL = `
INSERT INTO metadata (key, value, updated_at)
SELECT ?, value, CURRENT_TIMESTAMP FROM metadata WHERE key = ?
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	deleteSlotSQL = `DELETE FROM metadata WHERE key = ?`
)

// SQLiteRepository keeps slots in the metadata table created by the client
// migrations.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	switch err := r.db.QueryRowContext(ctx, selectSlotSQL, slot).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("slot %q: %w", slot, common.ErrorNotFound)
	case err != nil:
		return nil, fmt.Errorf("read slot %q: %w", slot, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, slot string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, upsertSlotSQL, slot, value); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

// Move copies from into to and then clears from. Both statements run on the
// repository's DBTX, so callers wanting atomicity pass a transaction.
func (r *SQLiteRepository) Move(ctx context.Context, from, to string) error {
	res, err := r.db.ExecContext(ctx, copySlotSQL, to, from)
	if err != nil {
		return fmt.Errorf("copy slot %q to %q: %w", from, to, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("slot %q: %w", from, common.ErrorNotFound)
	}
	return r.Delete(ctx, from)
}

func (r *SQLiteRepository) Delete(ctx context.Context, slot string) error {
	if _, err := r.db.ExecContext(ctx, deleteSlotSQL, slot); err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}
