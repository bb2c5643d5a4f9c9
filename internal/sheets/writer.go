package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write implements the ReportWriter interface: it replaces the sheet's
// contents with the summary block followed by one row per event, grouped by
// date bucket.
func (w *Writer) Write(ctx context.Context, buckets []model.DateBucket, summary model.FilterSummary, meta service.ReportMeta) error {
	w.logger.Info("starting report export",
		"events", summary.TotalEvents,
		"buckets", len(buckets),
		"period", fmt.Sprintf("%s to %s", meta.PeriodStart.Format("2006-01-02"), meta.PeriodEnd.Format("2006-01-02")))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareReportData(buckets, summary, meta)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		// Verify the spreadsheet exists and is accessible
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Activity",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData lays out the report: title, summary block, breakdowns,
// then one section per date bucket.
func (w *Writer) prepareReportData(buckets []model.DateBucket, summary model.FilterSummary, meta service.ReportMeta) [][]any {
	values := make([][]any, 0, summary.TotalEvents+len(buckets)+16)

	title := meta.Title
	if title == "" {
		title = "Savings Group Activity Report"
	}
	values = append(values,
		[]any{title},
		[]any{"Period", meta.PeriodStart.Format("2006-01-02"), meta.PeriodEnd.Format("2006-01-02")},
		[]any{"Generated", meta.GeneratedAt.Format(time.RFC3339)},
		[]any{"Active filters", meta.ActiveFilters},
		[]any{},
		[]any{"Total events", summary.TotalEvents},
		[]any{"Total amount", summary.TotalAmount},
	)

	if len(summary.EventTypeBreakdown) > 0 {
		values = append(values, []any{}, []any{"Events by type"})
		for _, t := range model.AllEventTypes {
			if count, ok := summary.EventTypeBreakdown[t]; ok {
				values = append(values, []any{string(t), count})
			}
		}
	}
	if len(summary.FundTypeBreakdown) > 0 {
		values = append(values, []any{}, []any{"Events by fund"})
		for _, f := range model.AllFundTypes {
			if count, ok := summary.FundTypeBreakdown[f]; ok {
				values = append(values, []any{string(f), count})
			}
		}
	}

	for _, bucket := range buckets {
		values = append(values,
			[]any{},
			[]any{bucket.Date.Format("Monday, 02 January 2006")},
			[]any{"Type", "Title", "Group", "Amount", "Fund", "Status"})
		for _, e := range bucket.Events {
			amount := any("")
			if e.Amount != nil {
				amount = *e.Amount
			}
			values = append(values, []any{
				string(e.Type), e.Title, e.GroupName, amount, string(e.FundType), string(e.Verification),
			})
		}
	}

	return values
}

// writeData writes the prepared rows starting at A1.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{
		Range:  "A1",
		Values: values,
	}
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}
