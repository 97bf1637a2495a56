package gviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"sheeets/internal/domain"
)

// Pagination limits for ReadAll.
const (
	DefaultPageSize = 500
	DefaultMaxRows  = 5000
	defaultBaseURL  = "https://docs.google.com/spreadsheets/d"
)

// Client reads conference tabs from a published spreadsheet through the GViz
// query endpoint.
type Client struct {
	client   *http.Client
	logger   *slog.Logger
	baseURL  string
	sheetID  string
	pageSize int
	maxRows  int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithPageSize overrides the page size and the total row cap.
func WithPageSize(pageSize, maxRows int) Option {
	return func(c *Client) {
		c.pageSize = pageSize
		c.maxRows = maxRows
	}
}

// NewClient returns a reader for the given spreadsheet.
func NewClient(client *http.Client, sheetID string, logger *slog.Logger, opts ...Option) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	c := &Client{
		client:   client,
		logger:   logger,
		baseURL:  defaultBaseURL,
		sheetID:  sheetID,
		pageSize: DefaultPageSize,
		maxRows:  DefaultMaxRows,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchTable requests one page of a tab.
func (c *Client) FetchTable(ctx context.Context, sheetID, gid string, offset, limit int) (*Table, error) {
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("gid", gid)
	q.Set("tq", fmt.Sprintf("select * limit %d offset %d", limit, offset))
	u := fmt.Sprintf("%s/%s/gviz/tq?%s", c.baseURL, url.PathEscape(sheetID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet tab %s: %w", gid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gviz returned status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gviz response: %w", err)
	}
	parsed, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}
	return &parsed.Table, nil
}

// ReadAll pages through a tab until a short page or the row cap. A failure on
// the first page is returned; a later failure ends pagination and the rows read
// so far are returned.
func (c *Client) ReadAll(ctx context.Context, gid string) (*Table, error) {
	var all Table
	for offset := 0; offset < c.maxRows; offset += c.pageSize {
		limit := min(c.pageSize, c.maxRows-offset)
		page, err := c.FetchTable(ctx, c.sheetID, gid, offset, limit)
		if err != nil {
			if offset == 0 {
				return nil, err
			}
			c.logger.WarnContext(ctx, "gviz page failed, keeping partial data", "gid", gid, "offset", offset, "rows", len(all.Rows), "err", err)
			break
		}
		if offset == 0 {
			all.Cols = page.Cols
		}
		all.Rows = append(all.Rows, page.Rows...)
		if len(page.Rows) < limit {
			break
		}
	}
	if len(all.Rows) >= c.maxRows {
		c.logger.WarnContext(ctx, "gviz row cap reached", "gid", gid, "max_rows", c.maxRows)
	}
	return &all, nil
}

// ReadFeed implements domain.SourceReader.
func (c *Client) ReadFeed(ctx context.Context, feed domain.Feed) ([]domain.RawRow, error) {
	table, err := c.ReadAll(ctx, feed.GID)
	if err != nil {
		var sfe *domain.SourceFormatError
		if errors.As(err, &sfe) && sfe.Feed == "" {
			sfe.Feed = feed.Conference
		}
		return nil, err
	}
	cols := mapColumns(table.Cols)
	rows := make([]domain.RawRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, cols.rawRow(r))
	}
	return rows, nil
}
