package platform

import (
	"context"
	"fmt"

	"testplanner/internal/api"
	"testplanner/internal/config"
)

// Factory builds clients from stored credential profiles.
type Factory struct {
	credentials api.CredentialStore
	opts        Options
}

var _ api.PlatformFactory = (*Factory)(nil)

// NewFactory creates a Factory using the platform section of the configuration.
func NewFactory(credentials api.CredentialStore, cfg config.PlatformConfig) *Factory {
	return &Factory{
		credentials: credentials,
		opts: Options{
			BaseURL:        cfg.BaseURL,
			PollInterval:   cfg.PollInterval,
			MaxPolls:       cfg.MaxPolls,
			MaxRetries:     cfg.MaxRetries,
			InitialDelay:   cfg.InitialDelay,
			MaxJitter:      cfg.MaxJitter,
			RequestTimeout: cfg.RequestTimeout,
		},
	}
}

// Create returns a client for profileName. A missing profile yields a
// *api.NotFoundError.
func (f *Factory) Create(ctx context.Context, profileName string) (api.Platform, error) {
	creds, err := f.credentials.Get(ctx, profileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return NewClient(*creds, f.opts), nil
}
