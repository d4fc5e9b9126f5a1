// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Search dispatch - these keys govern how a query is fanned out to providers.
const (
	SearchMaxPages             = "search.max_pages"
	SearchStreaming            = "search.streaming"
	SearchFlushDelay           = "search.flush_delay"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Result caching - these keys control the paged result cache and the resolved detail memo.
const (
	CacheTTL       = "cache.ttl"
	CacheDetailTTL = "cache.detail_ttl"
)

// Network timeouts applied to every upstream request.
const (
	NetworkSearchTimeout = "network.search_timeout"
	NetworkDetailTimeout = "network.detail_timeout"
)

// Scraping - these keys tune the HTML adapter's anti-bot retry and episode resolution pool.
const (
	ScrapeChallengeBackoff = "scrape.challenge_backoff"
	ScrapeWorkers          = "scrape.workers"
)

// History Tracking - these keys configure the persistence of dispatched queries.
const (
	HistoryRecordQueries = "history.record_queries"
)

// HTTP surface.
const (
	ServerAddress = "server.address"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)
