package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/workshop-ledger/internal/common"
	"github.com/Veraticus/workshop-ledger/internal/model"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetID extracts the spreadsheet ID from a sheet URL. A bare ID is
// returned unchanged.
func SpreadsheetID(source string) (string, error) {
	source = strings.TrimSpace(source)
	if m := spreadsheetIDPattern.FindStringSubmatch(source); m != nil {
		return m[1], nil
	}
	if source == "" || strings.ContainsAny(source, "/?:") {
		return "", fmt.Errorf("no spreadsheet ID in %q", source)
	}
	return source, nil
}

// valuesGetter reads a range of cell values. Satisfied by the Sheets API
// client and by test fakes.
type valuesGetter interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

type sheetsValues struct {
	service *sheets.Service
}

func (s sheetsValues) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// APIFetcher reads sheets through the Google Sheets API.
type APIFetcher struct {
	values    valuesGetter
	logger    *slog.Logger
	readRange string
}

// NewAPIFetcher creates a fetcher authenticated with the configured
// refresh token or service account.
func NewAPIFetcher(ctx context.Context, config Config, logger *slog.Logger) (*APIFetcher, error) {
	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return newAPIFetcher(sheetsValues{service: service}, config.Range, logger), nil
}

func newAPIFetcher(values valuesGetter, readRange string, logger *slog.Logger) *APIFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if readRange == "" {
		readRange = DefaultConfig().Range
	}
	return &APIFetcher{values: values, readRange: readRange, logger: logger}
}

// Fetch reads the configured range of the spreadsheet named by source.
func (f *APIFetcher) Fetch(ctx context.Context, source string) (model.RawTable, error) {
	id, err := SpreadsheetID(source)
	if err != nil {
		return nil, err
	}

	rows, err := f.values.GetValues(ctx, id, f.readRange)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &FetchError{StatusCode: apiErr.Code, Snippet: truncate(apiErr.Message, statusSnippetLimit), Err: err}
		}
		// A rejected refresh token or service account key fails the same way every time.
		var authErr *oauth2.RetrieveError
		if errors.As(err, &authErr) {
			return nil, &common.RetryableError{Err: &FetchError{Err: err}, Retryable: false}
		}
		return nil, &FetchError{Err: err}
	}

	f.logger.Debug("read sheet values", "spreadsheet_id", id, "range", f.readRange, "rows", len(rows))

	table := model.RawTable(rows)
	if len(table) < 2 {
		return nil, &EmptyOrInvalidSheetError{Rows: len(table)}
	}
	return table, nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").
			TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken})
	}

	return sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
}
