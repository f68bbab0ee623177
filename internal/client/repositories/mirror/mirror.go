// Package mirror persists the client's copy of the entry list in a single
// metadata slot so the journal survives restarts and works offline.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/logging"
)

const (
	Key        = "entries"
	CorruptKey = "entries.corrupt"
)

type Mirror struct {
	repo metadata.Repository
	log  logging.Logger
}

func New(repo metadata.Repository, log logging.Logger) *Mirror {
	if log == nil {
		log = logging.Discard()
	}
	return &Mirror{repo: repo, log: log}
}

// Load returns the mirrored list. A missing slot is an empty list. A slot
// that does not decode is moved aside to CorruptKey and also yields an empty
// list, so the journal keeps working. Scores are clamped to the 0-100
// range of remote snapshots.
func (m *Mirror) Load(ctx context.Context) ([]models.Entry, error) {
	raw, err := m.repo.Get(ctx, Key)
	if errors.Is(err, common.ErrorNotFound) {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load mirror: %w", err)
	}
	if len(raw) == 0 {
		return []models.Entry{}, nil
	}

	var entries []models.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		m.log.Warn(ctx, "local mirror is corrupt, starting empty", "error", err, "preserved_as", CorruptKey)
		if qerr := m.quarantine(ctx); qerr != nil {
			return nil, qerr
		}
		return []models.Entry{}, nil
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	for i := range entries {
		entries[i].Eficacia = models.ClampScore(entries[i].Eficacia)
		entries[i].Intensidade = models.ClampScore(entries[i].Intensidade)
	}
	return entries, nil
}

// Save replaces the mirrored list with entries.
func (m *Mirror) Save(ctx context.Context, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode mirror: %w", err)
	}
	if err := m.repo.Put(ctx, Key, raw); err != nil {
		return fmt.Errorf("save mirror: %w", err)
	}
	return nil
}

func (m *Mirror) quarantine(ctx context.Context) error {
	if err := m.repo.Move(ctx, Key, CorruptKey); err != nil {
		return fmt.Errorf("preserve corrupt mirror: %w", err)
	}
	return nil
}
