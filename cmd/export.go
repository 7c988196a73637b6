package cmd

import (
	"catering-quote/common/constant"
	"catering-quote/outbound/airtable"
	"context"
	"io"
	"log"
	"log/slog"
	"os"
)

// runExportCatalogCmd dumps the remote table so it can be served later with
// catalog.source=csv.
func runExportCatalogCmd(ctx context.Context, out string) {
	cfg := newCfg("env")

	client := newAirtableClient(cfg)

	records, err := client.FetchAll(ctx)
	if err != nil {
		log.Fatalln("unable to fetch catalog", err)
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Fatalln("unable to create output file", err)
		}
		defer f.Close()
		w = f
	}

	if err := airtable.WriteCSV(w, records); err != nil {
		slog.ErrorContext(ctx, "failed to write catalog csv", slog.Any(constant.LogFieldErr, err))
		log.Fatalln(err)
	}

	slog.InfoContext(ctx, "catalog exported", slog.Int("records", len(records)), slog.String("out", out))
}
