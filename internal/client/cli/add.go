package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/client/models"
)

// readDraft walks the user through the entry form.
func (a *App) readDraft() (models.Draft, error) {
	var d models.Draft
	var err error

	text := []struct {
		prompt string
		dst    *string
	}{
		{"Date/time (YYYY-MM-DDTHH:MM, blank = now)", &d.DataHora},
		{"Situation", &d.Situacao},
		{"Thought", &d.Pensamento},
		{"Emotion", &d.Emocao},
		{"Physical symptoms", &d.SintomasFisicos},
		{"Coping strategy", &d.Estrategia},
	}
	for _, f := range text {
		if *f.dst, err = GetSimpleText(a.reader, f.prompt, a.out); err != nil {
			return models.Draft{}, err
		}
	}

	if d.Eficacia, err = GetScore(a.reader, "Efficacy", a.out); err != nil {
		return models.Draft{}, err
	}
	if d.Intensidade, err = GetScore(a.reader, "Intensity", a.out); err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

func (a *App) Add(ctx context.Context) error {
	d, err := a.readDraft()
	if err != nil {
		return err
	}

	e, err := a.entryService.Create(ctx, d)
	if err != nil {
		return fmt.Errorf("entry not saved: %w", err)
	}

	fmt.Fprintf(a.out, "Entry %s saved (%s).\n", e.ID, a.entryService.Mode())
	return nil
}
