package pgcatalog

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/contract"
	"catering-quote/common/otel"
	"catering-quote/core/catalog"
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

const findAllCatalogItems = `SELECT name, unit_price::text, servings, COALESCE(description, ''), COALESCE(category, ''), COALESCE(dietary_tags, '{}') FROM catalog_items ORDER BY position, name`

// Repository loads the catalog from the catalog_items table.
type Repository struct {
	Db contract.DbConn
}

func (r Repository) FindAllItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.Db.Query(ctx, findAllCatalogItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			i        catalog.Item
			price    string
			servings int32
		)
		if err := rows.Scan(
			&i.Name,
			&price,
			&servings,
			&i.Description,
			&i.Category,
			&i.DietaryTags,
		); err != nil {
			return nil, err
		}

		i.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("%w: unit_price for %q: %v", catalog.ErrInvalidCatalogRow, i.Name, err)
		}
		i.DefaultQuantity = int(servings)

		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Load implements catalog.Source.
func (r Repository) Load(ctx context.Context) (*catalog.Catalog, error) {
	ctx, span := otel.Tracer.Start(ctx, "CatalogRepository.Load")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	items, err := r.FindAllItems(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to find catalog items", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("find catalog items: %w", err)
	}

	cat, err := catalog.New(items)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, err
	}

	slog.InfoContext(ctx, "catalog loaded from database", traceIdAttr, slog.Int("items", cat.Len()))

	return cat, nil
}
