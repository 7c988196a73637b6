package airtable

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteCSV writes records as a wide table, one row per record. List cells are
// written as bracketed literals, which catalog.ParseTags reads back.
func WriteCSV(w io.Writer, records []Record) error {
	columnSet := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec.Fields {
			columnSet[name] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, name := range columns {
			row[i] = formatCell(rec.Fields[name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case json.Number:
		return c.String()
	case []any:
		parts := make([]string, 0, len(c))
		for _, elem := range c {
			parts = append(parts, quoteLiteral(formatCell(elem)))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(c)
	}
}

func quoteLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
