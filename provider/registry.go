package provider

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vodhub/vodhub/filesystem"
	"github.com/vodhub/vodhub/where"
	"gopkg.in/yaml.v3"
)

// Registry supplies the providers a query is dispatched to.
type Registry interface {
	// Enabled returns the enabled providers in registry order.
	Enabled() ([]Config, error)
}

// FileRegistry reads providers from a YAML file on every call,
// so edits take effect on the next query.
type FileRegistry struct {
	Path string
}

// NewFileRegistry returns a registry backed by the default providers file.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{Path: where.Providers()}
}

type registryFile struct {
	Providers []Config `yaml:"providers"`
}

// All returns every provider in the file, disabled ones included.
func (r *FileRegistry) All() ([]Config, error) {
	contents, err := filesystem.ReadIfExists(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read providers: %w", err)
	}
	if len(contents) == 0 {
		return []Config{}, nil
	}

	var file registryFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.Path, err)
	}

	return validate(file.Providers)
}

// Enabled implements Registry.
func (r *FileRegistry) Enabled() ([]Config, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	return enabled(all), nil
}

// StaticRegistry is a fixed provider list.
type StaticRegistry []Config

// Enabled implements Registry.
func (s StaticRegistry) Enabled() ([]Config, error) {
	all, err := validate(s)
	if err != nil {
		return nil, err
	}
	return enabled(all), nil
}

func validate(configs []Config) ([]Config, error) {
	seen := make(map[string]struct{}, len(configs))
	valid := make([]Config, 0, len(configs))

	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if _, ok := seen[c.Key]; ok {
			return nil, fmt.Errorf("duplicate provider key %q", c.Key)
		}
		seen[c.Key] = struct{}{}

		valid = append(valid, c)
	}

	return valid, nil
}

func enabled(configs []Config) []Config {
	return lo.Filter(configs, func(c Config, _ int) bool {
		return !c.Disabled
	})
}
