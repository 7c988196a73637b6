package airtable

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/otel"
	"catering-quote/core/catalog"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultBaseURL = "https://api.airtable.com/v0"

type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type page struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// Client reads every record of one table, page by page.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	BaseID     string
	Table      string
	View       string
	Token      string
	PageSize   int
	Fields     catalog.FieldNames
}

func (c *Client) tableURL() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(c.BaseID), url.PathEscape(c.Table))
}

// FetchAll requests pages sequentially until a page comes back without an
// offset. Any failure aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]Record, error) {
	ctx, span := otel.Tracer.Start(ctx, "AirtableClient.FetchAll")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	var records []Record
	seenOffsets := make(map[string]struct{})
	offset := ""
	pages := 0

	for {
		p, err := c.fetchPage(ctx, offset)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch catalog page", traceIdAttr, slog.Int("page", pages+1), slog.Any(constant.LogFieldErr, err))
			common.UtilSpanError(span, err)
			return nil, err
		}

		pages++
		records = append(records, p.Records...)

		if p.Offset == "" {
			break
		}
		if _, ok := seenOffsets[p.Offset]; ok {
			err := fmt.Errorf("airtable: offset %q repeated on page %d", p.Offset, pages)
			common.UtilSpanError(span, err)
			return nil, err
		}
		seenOffsets[p.Offset] = struct{}{}
		offset = p.Offset
	}

	span.SetAttributes(attribute.Int("airtable.pages", pages), attribute.Int("airtable.records", len(records)))
	slog.DebugContext(ctx, "catalog records fetched", traceIdAttr, slog.Int("pages", pages), slog.Int("records", len(records)))

	return records, nil
}

func (c *Client) fetchPage(ctx context.Context, offset string) (page, error) {
	params := url.Values{}
	if c.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.PageSize))
	}
	if c.View != "" {
		params.Set("view", c.View)
	}
	if offset != "" {
		params.Set("offset", offset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?"+params.Encode(), nil)
	if err != nil {
		return page{}, fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("airtable: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return page{}, fmt.Errorf("airtable: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var p page
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return page{}, fmt.Errorf("airtable: decode page: %w", err)
	}

	return p, nil
}

// Load implements catalog.Source.
func (c *Client) Load(ctx context.Context) (*catalog.Catalog, error) {
	records, err := c.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	fields := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		fields = append(fields, rec.Fields)
	}

	items, err := catalog.FromRecords(fields, c.Fields)
	if err != nil {
		return nil, err
	}

	return catalog.New(items)
}
