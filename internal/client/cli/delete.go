package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/common"
)

func (a *App) Delete(ctx context.Context, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		if id, err = GetSimpleText(a.reader, "Entry ID", a.out); err != nil {
			return err
		}
	}
	if id == "" {
		return errors.New("usage: delete <id>")
	}

	if err := a.entryService.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no entry with id %s", id)
		}
		return err
	}

	fmt.Fprintf(a.out, "Entry %s deleted.\n", id)
	return nil
}
