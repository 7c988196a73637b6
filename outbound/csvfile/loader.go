package csvfile

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/otel"
	"catering-quote/core/catalog"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var ErrUnsupportedEncoding = errors.New("unsupported csv encoding")

var costColumns = []string{"Cost per Component ($)", "Cost per Component"}

// Loader reads the catalog from a CSV export. Two layouts are understood: one
// row per priced component (Item #, Item Name, Servings, Component, Cost per
// Component) and one row per item with the same columns as the remote table.
type Loader struct {
	Path        string
	Encoding    string
	CategoryMap map[string]string
	Fields      catalog.FieldNames
}

// Load implements catalog.Source.
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	ctx, span := otel.Tracer.Start(ctx, "CsvLoader.Load")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	f, err := os.Open(l.Path)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open catalog csv", traceIdAttr, slog.String("path", l.Path), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	cat, err := l.Read(f)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read catalog csv", traceIdAttr, slog.String("path", l.Path), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.items", cat.Len()))
	slog.InfoContext(ctx, "catalog loaded from csv", traceIdAttr, slog.String("path", l.Path), slog.Int("items", cat.Len()))

	return cat, nil
}

// Read parses an already opened export.
func (l *Loader) Read(r io.Reader) (*catalog.Catalog, error) {
	r, err := decoder(l.Encoding, r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return catalog.New(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var items []catalog.Item
	if isComponentLayout(columns) {
		items, err = l.readComponents(cr, columns)
	} else {
		items, err = l.readWide(cr, header)
	}
	if err != nil {
		return nil, err
	}

	return catalog.New(items)
}

func decoder(encoding string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

func isComponentLayout(columns map[string]int) bool {
	_, hasName := columns["Item Name"]
	_, hasComponent := columns["Component"]
	return hasName && hasComponent && costColumn(columns) >= 0
}

func costColumn(columns map[string]int) int {
	for _, name := range costColumns {
		if i, ok := columns[name]; ok {
			return i
		}
	}
	return -1
}

func (l *Loader) readComponents(cr *csv.Reader, columns map[string]int) ([]catalog.Item, error) {
	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	cost := costColumn(columns)

	var rows []catalog.ComponentRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrInvalidCatalogRow, err)
		}
		if blank(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		row := catalog.ComponentRow{
			Line:        line,
			ItemNumber:  cell(record, "Item #"),
			ItemName:    cell(record, "Item Name"),
			Servings:    cell(record, "Servings"),
			Component:   cell(record, "Component"),
			Category:    cell(record, "Category"),
			DietaryTags: cell(record, "Dietary Tags"),
		}
		if cost < len(record) {
			row.Cost = record[cost]
		}
		rows = append(rows, row)
	}

	return catalog.FromComponentRows(rows, l.CategoryMap)
}

func (l *Loader) readWide(cr *csv.Reader, header []string) ([]catalog.Item, error) {
	var records []map[string]any
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrInvalidCatalogRow, err)
		}
		if blank(record) {
			continue
		}

		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				fields[strings.TrimSpace(name)] = record[i]
			}
		}
		records = append(records, fields)
	}

	fields := l.Fields
	if fields.Name == "" {
		fields = catalog.DefaultFieldNames()
	}

	items, err := catalog.FromRecords(records, fields)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Category == "" {
			items[i].Category = l.CategoryMap[items[i].Name]
		}
	}

	return items, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
