package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/flock/internal/config"
	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/export"
)

// Exporter appends report rows to a spreadsheet.
type Exporter interface {
	AppendRows(ctx context.Context, sheetRange string, rows []models.Row) (int, error)
}

// GoogleSheetRepository implements Exporter using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed exporter. Extra client
// options are applied after the credentials file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must be provided")
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+2)
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, option.WithScopes(sheetsapi.SpreadsheetsScope))
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.Named("repo.sheets"),
	}, nil
}

// AppendRows appends report rows below the existing data of sheetRange. The
// header line is written only when the range is still empty. It returns the
// number of lines written.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows []models.Row) (int, error) {
	if sheetRange == "" {
		return 0, fmt.Errorf("sheetRange must not be empty")
	}
	records := export.Records(rows)
	if len(records) == 0 {
		return 0, nil
	}

	existing, err := r.ReadRange(ctx, sheetRange)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		records = records[1:]
	}

	values := make([][]interface{}, 0, len(records))
	for _, record := range records {
		line := make([]interface{}, 0, len(record))
		for _, cell := range record {
			line = append(line, cell)
		}
		values = append(values, line)
	}

	payload := &sheetsapi.ValueRange{Values: values}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return 0, fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("lines", len(values)))
	return len(values), nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}
