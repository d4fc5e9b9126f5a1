// Package provider turns registry entries into catalog adapters and runs cache-through searches against them.
package provider

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/key"
	"github.com/vodhub/vodhub/network"
	"github.com/vodhub/vodhub/provider/api"
	"github.com/vodhub/vodhub/provider/scrape"
	"github.com/vodhub/vodhub/source"
)

// Tuning holds the request policy shared by every adapter.
type Tuning struct {
	SearchTimeout    time.Duration
	DetailTimeout    time.Duration
	ChallengeBackoff time.Duration
	Workers          int
}

// DefaultTuning reads the tuning from the configuration.
func DefaultTuning() Tuning {
	return Tuning{
		SearchTimeout:    viper.GetDuration(key.NetworkSearchTimeout),
		DetailTimeout:    viper.GetDuration(key.NetworkDetailTimeout),
		ChallengeBackoff: viper.GetDuration(key.ScrapeChallengeBackoff),
		Workers:          viper.GetInt(key.ScrapeWorkers),
	}
}

// New creates the adapter for a provider entry.
func New(c Config, t Tuning) (source.Source, error) {
	switch c.Kind {
	case KindAPI, "":
		return api.New(api.Options{
			Key:           c.Key,
			Label:         c.Label(),
			BaseURL:       c.BaseURL,
			DetailBaseURL: c.DetailBaseURL,
			SearchPath:    c.SearchPath,
			Headers:       c.Headers,
			Client:        network.Client,
			SearchTimeout: t.SearchTimeout,
			DetailTimeout: t.DetailTimeout,
		}), nil
	case KindScrape:
		return scrape.New(scrape.Options{
			Key:              c.Key,
			Label:            c.Label(),
			BaseURL:          c.BaseURL,
			DetailBaseURL:    c.DetailBaseURL,
			SearchPath:       c.SearchPath,
			Headers:          c.Headers,
			Client:           network.BrowserClient,
			SearchTimeout:    t.SearchTimeout,
			DetailTimeout:    t.DetailTimeout,
			ChallengeBackoff: t.ChallengeBackoff,
			Workers:          t.Workers,
		}), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown kind %q", c.Key, c.Kind)
	}
}

// Sources loads the enabled providers and builds their adapters.
func Sources(r Registry, t Tuning) ([]source.Source, error) {
	configs, err := r.Enabled()
	if err != nil {
		return nil, err
	}

	sources := make([]source.Source, 0, len(configs))
	for _, c := range configs {
		src, err := New(c, t)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// Find builds the adapter of a single enabled provider.
func Find(r Registry, t Tuning, providerKey string) (source.Source, error) {
	configs, err := r.Enabled()
	if err != nil {
		return nil, err
	}

	for _, c := range configs {
		if c.Key == providerKey {
			return New(c, t)
		}
	}

	return nil, fmt.Errorf("provider %q: %w", providerKey, ErrUnknownProvider)
}
