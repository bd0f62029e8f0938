// Package google exports transactions and reports to a Google Sheets
// spreadsheet and reads the category taxonomy from it.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"entrepreedge/internal/core"
	"entrepreedge/internal/ports"
)

var (
	_ ports.TransactionExporter = (*Client)(nil)
	_ ports.ReportExporter      = (*Client)(nil)
	_ ports.TaxonomyReader      = (*Client)(nil)
)

// Options configures a Client. Credentials come from CredentialsJSON, then
// CredentialsFile, then GOOGLE_APPLICATION_CREDENTIALS. Non-empty
// ClientOptions replace the credential lookup entirely.
type Options struct {
	SpreadsheetID     string
	TransactionsSheet string
	ReportsSheet      string
	CategoriesSheet   string
	CredentialsJSON   string
	CredentialsFile   string
	ClientOptions     []goption.ClientOption
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	reportsSheet      string
	categoriesSheet   string
}

func New(ctx context.Context, o Options) (*Client, error) {
	if strings.TrimSpace(o.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	opts, err := credentialOptions(ctx, o)
	if err != nil {
		return nil, err
	}
	opts = append(opts, o.ClientOptions...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     strings.TrimSpace(o.SpreadsheetID),
		transactionsSheet: orDefault(o.TransactionsSheet, "Transações"),
		reportsSheet:      orDefault(o.ReportsSheet, "Relatórios"),
		categoriesSheet:   orDefault(o.CategoriesSheet, "Categorias"),
	}, nil
}

func credentialOptions(ctx context.Context, o Options) ([]goption.ClientOption, error) {
	if len(o.ClientOptions) > 0 {
		return nil, nil
	}
	inline := strings.TrimSpace(o.CredentialsJSON)
	file := strings.TrimSpace(o.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(inline)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file, "size", len(b))
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return []goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

// Export appends one row per transaction and returns the updated range.
func (c *Client) Export(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.transactionsSheet, "A:F", transactionRow(tx))
}

// ExportReport appends a one-line summary of the report.
func (c *Client) ExportReport(ctx context.Context, r core.Report) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.reportsSheet, "A:F", reportRow(r))
}

func (c *Client) appendRow(ctx context.Context, sheet, cols string, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// Categories reads the taxonomy sheet: column A holds income categories and
// column B expense categories, below a header row.
func (c *Client) Categories(ctx context.Context, txType core.TransactionType) ([]string, error) {
	if !txType.IsValid() {
		return nil, core.ErrInvalidType
	}
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	col := "B2:B"
	if txType == core.Income {
		col = "A2:A"
	}
	rng := fmt.Sprintf("%s!%s", c.categoriesSheet, col)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return firstColumn(resp.Values), nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
