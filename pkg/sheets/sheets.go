package sheets

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"gourmetmap/pkg/gourmet"
)

// Client is the table store adapter over one worksheet. It exposes only
// whole-sheet read, whole-sheet overwrite and single-row append; the
// Sheets API offers no row identity to build anything finer on.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewClient(ctx context.Context, jsonPath, spreadsheetID, sheetName string) (*Client, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(jsonPath))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return &Client{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

const (
	maxRetries = 15
	maxBackoff = 60 * time.Second
)

// withBackoff runs call, retrying with exponential backoff while the API
// reports rate limiting (429/403). Any other fault wraps into a
// StoreError immediately.
func withBackoff(op string, call func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		if gErr, ok := err.(*googleapi.Error); ok && (gErr.Code == 429 || gErr.Code == 403) {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			log.Printf("Rate limited by Google Sheets API, retrying in %v...", backoff)
			time.Sleep(backoff)
			continue
		}
		return &gourmet.StoreError{Op: op, Err: err}
	}
	return &gourmet.StoreError{Op: op, Err: fmt.Errorf("gave up after %d retries: %w", maxRetries, err)}
}

// ReadAll returns the sheet's full contents, header row included.
func (c *Client) ReadAll(ctx context.Context) ([][]interface{}, error) {
	var resp *sheets.ValueRange
	err := withBackoff("read", func() error {
		var err error
		resp, err = c.service.Spreadsheets.Values.Get(
			c.spreadsheetID,
			c.sheetName+"!A:Z",
		).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Overwrite clears the sheet and writes header + data rows from A1.
// Two API calls: a fault between them leaves the sheet empty, so callers
// treat overwrite as non-atomic.
func (c *Client) Overwrite(ctx context.Context, values [][]interface{}) error {
	err := withBackoff("overwrite", func() error {
		_, err := c.service.Spreadsheets.Values.Clear(
			c.spreadsheetID,
			c.sheetName+"!A:Z",
			&sheets.ClearValuesRequest{},
		).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	return withBackoff("overwrite", func() error {
		_, err := c.service.Spreadsheets.Values.Update(
			c.spreadsheetID,
			c.sheetName+"!A1",
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
}

// AppendRow appends one row below the existing data.
func (c *Client) AppendRow(ctx context.Context, row []interface{}) error {
	return withBackoff("append", func() error {
		_, err := c.service.Spreadsheets.Values.Append(
			c.spreadsheetID,
			c.sheetName+"!A:Z",
			&sheets.ValueRange{Values: [][]interface{}{row}},
		).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		return err
	})
}

// EnsureSheetExists creates the worksheet with the canonical header when
// the spreadsheet lacks it.
func (c *Client) EnsureSheetExists(ctx context.Context) error {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return &gourmet.StoreError{Op: "read", Err: err}
	}
	for _, sh := range ss.Sheets {
		if sh.Properties.Title == c.sheetName {
			return nil
		}
	}
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: c.sheetName,
			},
		},
	}
	_, err = c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{addSheetReq},
	}).Context(ctx).Do()
	if err != nil {
		return &gourmet.StoreError{Op: "overwrite", Err: err}
	}
	return c.Overwrite(ctx, gourmet.Denormalize(nil))
}
