package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/workshop-ledger/internal/service"
)

// NewFetcher builds the fetcher for config.Source.
func NewFetcher(ctx context.Context, config Config, logger *slog.Logger) (service.SheetFetcher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Source {
	case SourceProxy:
		fetcher, err := NewProxyFetcher(config, logger)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	case SourceAPI:
		fetcher, err := NewAPIFetcher(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	case SourceFile:
		return NewFileFetcher(config.FileSheet), nil
	default:
		return nil, fmt.Errorf("unknown sheet source %q", config.Source)
	}
}
