package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ComponentRow is one priced sub-component of an item, as found in the flat
// CSV export. Category and DietaryTags are optional columns.
type ComponentRow struct {
	Line        int
	ItemNumber  string
	ItemName    string
	Servings    string
	Component   string
	Cost        string
	Category    string
	DietaryTags string
}

// FromComponentRows folds component rows into items. The unit price is the sum
// of the component costs; servings come from the item's first row. Items
// without a category column fall back to categoryMap.
func FromComponentRows(rows []ComponentRow, categoryMap map[string]string) ([]Item, error) {
	type acc struct {
		item       Item
		components map[string]struct{}
		tags       map[string]struct{}
	}

	order := make([]string, 0)
	byName := make(map[string]*acc)

	for _, row := range rows {
		name := strings.TrimSpace(row.ItemName)
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: missing item name", ErrInvalidCatalogRow, row.Line)
		}

		cost, err := parsePrice(row.Cost)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: cost for %q: %v", ErrInvalidCatalogRow, row.Line, name, err)
		}

		a, ok := byName[name]
		if !ok {
			servings, err := parseServings(row.Servings)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: servings for %q: %v", ErrInvalidCatalogRow, row.Line, name, err)
			}

			a = &acc{
				item: Item{
					Name:            name,
					UnitPrice:       decimal.Zero,
					DefaultQuantity: servings,
				},
				components: make(map[string]struct{}),
				tags:       make(map[string]struct{}),
			}
			byName[name] = a
			order = append(order, name)
		}

		a.item.UnitPrice = a.item.UnitPrice.Add(cost)

		if component := strings.TrimSpace(row.Component); component != "" {
			a.components[component] = struct{}{}
		}

		if a.item.Category == "" {
			a.item.Category = strings.TrimSpace(ParseTags(row.Category).First())
		}

		for _, tag := range ParseTags(row.DietaryTags).Set() {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, seen := a.tags[tag]; !seen {
				a.tags[tag] = struct{}{}
				a.item.DietaryTags = append(a.item.DietaryTags, tag)
			}
		}
	}

	items := make([]Item, 0, len(order))
	for _, name := range order {
		a := byName[name]

		if a.item.Category == "" {
			a.item.Category = categoryMap[name]
		}

		if len(a.components) > 0 {
			components := make([]string, 0, len(a.components))
			for c := range a.components {
				components = append(components, c)
			}
			sort.Strings(components)
			a.item.Description = "Includes: " + strings.Join(components, ", ") + "."
		}

		items = append(items, a.item)
	}

	return items, nil
}

// FieldNames maps item attributes to the column names of a wide remote table.
type FieldNames struct {
	Name        string
	Price       string
	Servings    string
	Description string
	Category    string
	DietaryTags string
}

func DefaultFieldNames() FieldNames {
	return FieldNames{
		Name:        "Item Name",
		Price:       "Cost Per Serving",
		Servings:    "Servings",
		Description: "Description",
		Category:    "Name (from Primary Tag)",
		DietaryTags: "Dietary Tags",
	}
}

// FromRecords converts wide-table records (one per item) into items. Missing
// descriptive cells become empty strings, a missing servings cell means one
// serving, a missing or non-numeric price fails the whole load.
func FromRecords(records []map[string]any, fields FieldNames) ([]Item, error) {
	items := make([]Item, 0, len(records))

	for i, rec := range records {
		name := strings.TrimSpace(cellString(rec[fields.Name]))
		if name == "" {
			return nil, fmt.Errorf("%w: record %d: missing %q", ErrInvalidCatalogRow, i, fields.Name)
		}

		price, err := cellDecimal(rec[fields.Price])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %q for %q: %v", ErrInvalidCatalogRow, i, fields.Price, name, err)
		}

		servings := 1
		if raw, ok := rec[fields.Servings]; ok && raw != nil {
			servings, err = cellInt(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %q for %q: %v", ErrInvalidCatalogRow, i, fields.Servings, name, err)
			}
		}

		var tags []string
		for _, tag := range ParseTags(rec[fields.DietaryTags]).Set() {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}

		items = append(items, Item{
			Name:            name,
			UnitPrice:       price,
			DefaultQuantity: servings,
			Description:     cellString(rec[fields.Description]),
			Category:        strings.TrimSpace(ParseTags(rec[fields.Category]).First()),
			DietaryTags:     tags,
		})
	}

	return items, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return decimal.Zero, fmt.Errorf("missing")
	}
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
}

func parseServings(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func cellDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("missing")
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		return parsePrice(n)
	default:
		return decimal.Zero, fmt.Errorf("unsupported value %v", v)
	}
}

func cellInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		return parseServings(n.String())
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		return parseServings(n)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}
