package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/workshop-ledger/internal/ingest"
	"github.com/Veraticus/workshop-ledger/internal/service"
)

const (
	defaultFetchTimeout    = 30 * time.Second
	defaultSyncConcurrency = 4
	defaultSyncSchedule    = "@every 30m"
)

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// SyncConfig controls how registration syncs are run.
type SyncConfig struct {
	Schedule    string
	Retry       service.RetryOptions
	Concurrency int
}

// LoadSyncConfig reads the sync.* keys.
func LoadSyncConfig() (*SyncConfig, error) {
	config := &SyncConfig{
		Concurrency: defaultSyncConcurrency,
		Schedule:    defaultSyncSchedule,
		Retry: service.RetryOptions{
			MaxAttempts:  1,
			InitialDelay: 2 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}

	if viper.IsSet("sync.concurrency") {
		config.Concurrency = viper.GetInt("sync.concurrency")
	}
	if viper.IsSet("sync.retries") {
		config.Retry.MaxAttempts = viper.GetInt("sync.retries")
	}
	if viper.IsSet("sync.retry_delay") {
		config.Retry.InitialDelay = viper.GetDuration("sync.retry_delay")
	}
	if v := viper.GetString("sync.schedule"); v != "" {
		config.Schedule = v
	}

	if config.Concurrency < 1 {
		return nil, fmt.Errorf("sync.concurrency must be at least 1, got %d", config.Concurrency)
	}
	if config.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("sync.retries must be at least 1, got %d", config.Retry.MaxAttempts)
	}
	if config.Retry.InitialDelay < 0 {
		return nil, fmt.Errorf("sync.retry_delay cannot be negative")
	}

	return config, nil
}

// LoadColumnLayout returns the default sheet layout with any overrides from
// columns.<field>.variants and columns.<field>.fallback applied.
func LoadColumnLayout() (ingest.ColumnLayout, error) {
	layout := ingest.DefaultLayout()

	for _, field := range ingest.Fields {
		key := "columns." + string(field)
		if !viper.IsSet(key) {
			continue
		}

		rule := layout[field]
		if variants := viper.GetStringSlice(key + ".variants"); len(variants) > 0 {
			rule.Variants = make([]string, 0, len(variants))
			for _, v := range variants {
				if v = strings.TrimSpace(v); v != "" {
					rule.Variants = append(rule.Variants, v)
				}
			}
		}
		if viper.IsSet(key + ".fallback") {
			fallback := viper.GetInt(key + ".fallback")
			if fallback < ingest.FallbackLastColumn {
				return nil, fmt.Errorf("%s.fallback must be a column index, -1 or -2, got %d", key, fallback)
			}
			rule.Fallback = fallback
		}
		layout[field] = rule
	}

	return layout, nil
}
