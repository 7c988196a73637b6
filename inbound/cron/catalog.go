package cron

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/vars"
	"catering-quote/core/catalog"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

const defaultLoadTimeout = 30 * time.Second

// CatalogCron owns the process-wide catalog: one blocking load at startup and,
// when catalog.refresh.interval is set, periodic reloads.
type CatalogCron struct {
	Cfg    *viper.Viper
	Source catalog.Source
}

func (in CatalogCron) timeout() time.Duration {
	if d := in.Cfg.GetDuration("catalog.refresh.timeout"); d > 0 {
		return d
	}
	return defaultLoadTimeout
}

// InitCatalog loads the catalog before the server accepts requests. Any error
// means there is nothing to serve.
func (in CatalogCron) InitCatalog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, in.timeout())
	defer cancel()

	cat, err := in.Source.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load catalog", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("load catalog: %w", err)
	}

	vars.SetCatalog(cat)

	slog.InfoContext(ctx, "catalog initialized", slog.Int("items", cat.Len()), slog.Any("categories", cat.Categories()))
	return nil
}

func (in CatalogCron) Start(ctx context.Context) {
	interval := in.Cfg.GetDuration("catalog.refresh.interval")
	if interval <= 0 {
		slog.Info("catalog refresh disabled")
		return
	}

	refreshTicker := time.NewTicker(interval)
	defer refreshTicker.Stop()

	slog.Info("catalog cron started", slog.Duration("interval", interval))

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("catalog cron stopped")
			return
		}
	}
}

// refresh swaps in a new catalog. A failed reload keeps serving the old one.
func (in CatalogCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.timeout())
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing catalog", traceIdAttr)

	cat, err := in.Source.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to refresh catalog", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	vars.SetCatalog(cat)

	slog.DebugContext(ctx, "catalog refreshed successfully", traceIdAttr, slog.Int("items", cat.Len()))
}
