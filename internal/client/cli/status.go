package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/registo/internal/client/services"
	"github.com/dustin/go-humanize"
)

func (a *App) Status(ctx context.Context) error {
	all := a.entryService.Entries()
	visible := a.visible()

	switch a.entryService.Mode() {
	case services.ModeRemote:
		fmt.Fprintf(a.out, "Mode: remote (%s)\n", a.config.RemoteBackend)
	default:
		fmt.Fprintln(a.out, "Mode: local mirror")
	}
	fmt.Fprintf(a.out, "Entries: %s total, %s in period %s\n",
		humanize.Comma(int64(len(all))), humanize.Comma(int64(len(visible))), a.period.Label())

	if len(all) > 0 {
		if t, ok := all[0].Time(); ok {
			fmt.Fprintf(a.out, "Latest entry: %s\n", humanize.RelTime(t, a.now(), "ago", "from now"))
		}
	}
	return nil
}
