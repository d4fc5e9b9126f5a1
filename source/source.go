// Package source defines the domain models and interfaces for video discovery across providers.
package source

import "context"

// Source is one configured catalog provider.
type Source interface {
	// Key returns the registry key of the provider.
	Key() string

	// Label returns the display name of the provider.
	Label() string

	// SearchPage fetches a single page of results for query. Pages are 1-based.
	SearchPage(ctx context.Context, query string, page int) (*Page, error)

	// Detail resolves a single title, including its playable episode list.
	Detail(ctx context.Context, id string) (*Detail, error)
}

// Page is one page of search results as reported by a provider.
type Page struct {
	Results []*Result `json:"results"`
	// PageCount is the number of pages the provider reports. Only meaningful on page 1.
	PageCount int `json:"pageCount"`
}
