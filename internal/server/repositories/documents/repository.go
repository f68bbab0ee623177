package documents

import (
	"context"

	"github.com/dmitrijs2005/registo/internal/server/models"
)

// ChangeChannel is the PostgreSQL NOTIFY channel carrying the name of the
// collection that changed.
const ChangeChannel = "documents_changed"

// Repository stores documents grouped by collection.
type Repository interface {
	Insert(ctx context.Context, doc *models.Document) error
	// Delete returns common.ErrorNotFound when no such document exists.
	Delete(ctx context.Context, collection, id string) error
	// List returns the collection ordered by the orderBy data field, or in
	// insertion order when orderBy is empty.
	List(ctx context.Context, collection, orderBy string, desc bool) ([]*models.Document, error)
	// Notify announces a change of collection on ChangeChannel. Inside a
	// transaction the notification is delivered on commit.
	Notify(ctx context.Context, collection string) error
}
