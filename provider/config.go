package provider

import (
	"fmt"
	"strings"
)

// Kind selects the adapter implementation of a provider.
type Kind string

const (
	// KindAPI is a structured JSON catalog.
	KindAPI Kind = "api"
	// KindScrape is an HTML site.
	KindScrape Kind = "scrape"
)

// Config is one provider entry of the registry.
type Config struct {
	Key           string            `yaml:"key" json:"key"`
	Name          string            `yaml:"name" json:"name"`
	Kind          Kind              `yaml:"kind" json:"kind"`
	BaseURL       string            `yaml:"base_url" json:"baseUrl"`
	DetailBaseURL string            `yaml:"detail_base_url,omitempty" json:"detailBaseUrl,omitempty"`
	SearchPath    string            `yaml:"search_path,omitempty" json:"searchPath,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Disabled      bool              `yaml:"disabled,omitempty" json:"disabled"`
}

// Label returns the display name, falling back to the key.
func (c Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Key
}

func (c Config) String() string {
	return fmt.Sprintf("%s (%s)", c.Label(), c.Kind)
}

// Validate checks the fields every adapter needs.
func (c *Config) Validate() error {
	c.Key = strings.TrimSpace(c.Key)
	if c.Key == "" {
		return fmt.Errorf("provider without key")
	}

	if c.Kind == "" {
		c.Kind = KindAPI
	}

	switch c.Kind {
	case KindAPI, KindScrape:
	default:
		return fmt.Errorf("provider %s: unknown kind %q", c.Key, c.Kind)
	}

	if c.BaseURL == "" {
		return fmt.Errorf("provider %s: base_url is required", c.Key)
	}

	return nil
}
