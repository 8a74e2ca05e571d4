// Package sheets exports task lists to a Google Sheets spreadsheet through
// the Sheets v4 REST API.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Defaults.
const (
	DefaultEndpoint  = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultSheetName = "Tasks"
	DefaultTimeout   = 30 * time.Second
)

// ErrDisabled is returned by Disabled.Export.
var ErrDisabled = errors.New("Google Sheets integration is not available") //nolint:staticcheck // product name

// Header is the first row of every export.
var Header = []string{"ID", "Description", "Status", "Priority", "Created At", "Due Date", "Links"}

// Exporter writes a task list somewhere outside the process.
type Exporter interface {
	Available() bool
	Export(ctx context.Context, tasks []*task.Task) error
}

// Disabled is the Exporter used when export is turned off.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Export(context.Context, []*task.Task) error { return ErrDisabled }

// Options configures a Client.
type Options struct {
	Endpoint      string
	APIKey        string
	SpreadsheetID string
	SheetName     string
	Timeout       time.Duration
}

// Client replaces the contents of one sheet with a task list.
type Client struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
}

var (
	_ Exporter = Disabled{}
	_ Exporter = (*Client)(nil)
)

// New creates a Client, filling unset options with defaults.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{opts: opts, client: &http.Client{Timeout: opts.Timeout}, logger: logger}
}

// Available reports whether the client has the credentials it needs.
func (c *Client) Available() bool {
	return c.opts.APIKey != "" && c.opts.SpreadsheetID != ""
}

type valueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// Export clears the sheet and writes the header plus one row per task.
func (c *Client) Export(ctx context.Context, tasks []*task.Task) error {
	if !c.Available() {
		return fmt.Errorf("%w: api_key and spreadsheet_id are required", ErrDisabled)
	}

	base := strings.TrimRight(c.opts.Endpoint, "/") + "/" + url.PathEscape(c.opts.SpreadsheetID) +
		"/values/" + url.PathEscape(c.opts.SheetName)

	if err := c.do(ctx, http.MethodPost, base+":clear", nil, []byte("{}")); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	body, err := json.Marshal(valueRange{
		Range:          c.opts.SheetName + "!A1",
		MajorDimension: "ROWS",
		Values:         Rows(tasks),
	})
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	q := url.Values{"valueInputOption": {"RAW"}}
	if err := c.do(ctx, http.MethodPut, base+"!A1", q, body); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	c.logger.Info("exported tasks", "count", len(tasks), "sheet", c.opts.SheetName)
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, q url.Values, body []byte) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("key", c.opts.APIKey)

	req, err := http.NewRequestWithContext(ctx, method, rawURL+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Rows converts tasks into sheet rows, header first.
func Rows(tasks []*task.Task) [][]string {
	rows := make([][]string, 0, len(tasks)+1)
	rows = append(rows, Header)
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			t.Description,
			t.CompletionLabel(),
			t.Priority.String(),
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.DueString(),
			strings.Join(t.Links, ", "),
		})
	}
	return rows
}
