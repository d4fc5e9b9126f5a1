package cmd

import (
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/dispatch"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/key"
	"github.com/vodhub/vodhub/provider"
	"github.com/vodhub/vodhub/query"
)

func registry() *provider.FileRegistry {
	return provider.NewFileRegistry()
}

func newDispatcher(r provider.Registry) *dispatch.Dispatcher {
	return dispatch.New(
		dispatch.FromRegistry(r, provider.DefaultTuning),
		cache.New(viper.GetDuration(key.CacheTTL)),
		dispatch.WithMaxPages(func() int {
			return viper.GetInt(key.SearchMaxPages)
		}),
		dispatch.WithRecorder(query.Record),
	)
}
