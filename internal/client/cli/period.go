package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/client/report"
)

func (a *App) SetPeriod(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: period <all|day|week|month>")
	}
	p, err := report.ParsePeriod(args[0])
	if err != nil {
		return err
	}
	a.period = p
	fmt.Fprintf(a.out, "Period set to %s.\n", p.Label())
	return nil
}
