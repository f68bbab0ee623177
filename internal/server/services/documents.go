// Package services holds the document server's business logic: writes that
// announce themselves, and live snapshots driven by change signals.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/dbx"
	"github.com/dmitrijs2005/registo/internal/logging"
	"github.com/dmitrijs2005/registo/internal/server/hub"
	"github.com/dmitrijs2005/registo/internal/server/models"
	"github.com/dmitrijs2005/registo/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hub         *hub.Hub
	indexed     map[string]struct{}
	log         logging.Logger
}

func NewDocumentService(db *sql.DB, rm repomanager.RepositoryManager, h *hub.Hub, indexedFields []string, log logging.Logger) *DocumentService {
	indexed := make(map[string]struct{}, len(indexedFields))
	for _, f := range indexedFields {
		indexed[f] = struct{}{}
	}
	return &DocumentService{
		db:          db,
		repomanager: rm,
		hub:         h,
		indexed:     indexed,
		log:         log.With("module", "documents"),
	}
}

// Insert stores data under a fresh id and announces the change.
func (s *DocumentService) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("%w: collection is required", common.ErrorValidation)
	}
	if data == nil {
		data = map[string]any{}
	}

	doc := &models.Document{ID: uuid.NewString(), Collection: collection, Data: data}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Documents(tx)
		if err := repo.Insert(ctx, doc); err != nil {
			return err
		}
		return repo.Notify(ctx, collection)
	})
	if err != nil {
		return "", err
	}

	s.hub.Publish(collection)
	s.log.Debug(ctx, "document inserted", "collection", collection, "id", doc.ID)
	return doc.ID, nil
}

// Delete removes a document; common.ErrorNotFound when it does not exist.
func (s *DocumentService) Delete(ctx context.Context, collection, id string) error {
	if collection == "" || id == "" {
		return fmt.Errorf("%w: collection and id are required", common.ErrorValidation)
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Documents(tx)
		if err := repo.Delete(ctx, collection, id); err != nil {
			return err
		}
		return repo.Notify(ctx, collection)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(collection)
	s.log.Debug(ctx, "document deleted", "collection", collection, "id", id)
	return nil
}

// Snapshot returns the whole collection in the requested order. Ordering
// by a field without an index fails with common.ErrIndexRequired.
func (s *DocumentService) Snapshot(ctx context.Context, collection, orderBy string, desc bool) ([]*models.Document, error) {
	if err := s.checkOrder(orderBy); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).List(ctx, collection, orderBy, desc)
}

// Watch sends a snapshot right away and another one after every change of
// the collection, until ctx ends or send fails.
func (s *DocumentService) Watch(ctx context.Context, collection, orderBy string, desc bool, send func([]*models.Document) error) error {
	if collection == "" {
		return fmt.Errorf("%w: collection is required", common.ErrorValidation)
	}
	if err := s.checkOrder(orderBy); err != nil {
		return err
	}

	// Subscribe before the first read so no change slips in between.
	changes, cancel := s.hub.Subscribe(collection)
	defer cancel()

	for {
		docs, err := s.repomanager.Documents(s.db).List(ctx, collection, orderBy, desc)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := send(docs); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-changes:
		}
	}
}

func (s *DocumentService) checkOrder(orderBy string) error {
	if orderBy == "" {
		return nil
	}
	if _, ok := s.indexed[orderBy]; !ok {
		return fmt.Errorf("%w: %s", common.ErrIndexRequired, orderBy)
	}
	return nil
}
