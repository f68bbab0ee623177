package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (a *App) Export(ctx context.Context, args []string) error {
	upload := false
	if len(args) > 0 {
		if !strings.EqualFold(args[0], "upload") {
			return errors.New("usage: export [upload]")
		}
		if !a.canUpload {
			return errors.New("upload requested but no S3 bucket is configured")
		}
		upload = true
	}

	res, err := a.exportService.Export(ctx, a.visible(), upload)
	if res.Path != "" {
		fmt.Fprintf(a.out, "Exported %d rows to %s\n", res.Rows, res.Path)
	}
	if err != nil {
		return err
	}
	if res.URL != "" {
		fmt.Fprintf(a.out, "Download link (valid 15 minutes): %s\n", res.URL)
	}
	return nil
}
