package catalogcache

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/otel"
	"catering-quote/core/catalog"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot keeps the last loaded catalog in redis so several instances share
// one remote fetch.
type Snapshot struct {
	Cache *redis.Client
	Name  string
	TTL   time.Duration
}

func (s Snapshot) key() string {
	return fmt.Sprintf(constant.CatalogSnapshotKey, s.Name)
}

// Get reports false when no snapshot is stored.
func (s Snapshot) Get(ctx context.Context) ([]catalog.Item, bool, error) {
	raw, err := s.Cache.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get catalog snapshot: %w", err)
	}

	var items []catalog.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode catalog snapshot: %w", err)
	}

	return items, true, nil
}

func (s Snapshot) Set(ctx context.Context, items []catalog.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = constant.CatalogDefaultTTL
	}

	if err := s.Cache.Set(ctx, s.key(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set catalog snapshot: %w", err)
	}

	return nil
}

// CachedSource serves the catalog from the snapshot when one exists and
// otherwise loads it from Source and stores it. A failed load is returned as
// is; the snapshot is never used as a fallback for it.
type CachedSource struct {
	Source   catalog.Source
	Snapshot Snapshot
}

func (c CachedSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	ctx, span := otel.Tracer.Start(ctx, "CachedSource.Load")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	items, ok, err := c.Snapshot.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "catalog snapshot unavailable", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}
	if ok {
		cat, err := catalog.New(items)
		if err == nil {
			slog.DebugContext(ctx, "catalog served from snapshot", traceIdAttr, slog.Int("items", cat.Len()))
			return cat, nil
		}
		slog.WarnContext(ctx, "discarding invalid catalog snapshot", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	cat, err := c.Source.Load(ctx)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, err
	}

	if err := c.Snapshot.Set(ctx, cat.Items()); err != nil {
		slog.WarnContext(ctx, "failed to store catalog snapshot", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	return cat, nil
}
