package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/source"
)

// ErrUnknownProvider is returned when a key is not in the registry.
var ErrUnknownProvider = errors.New("unknown provider")

// Search runs a query against src, reading and filling store page by page.
//
// Page 1 decides the outcome: its failure is returned as the error. Later pages,
// up to maxPages and the page count page 1 reported, are fetched in order and
// appended; the first one that fails or comes back empty ends the walk without
// discarding what was already gathered.
func Search(ctx context.Context, src source.Source, store cache.Store, query string, maxPages int) ([]*source.Result, error) {
	results, pageCount, err := searchPage(ctx, src, store, query, 1)
	if err != nil {
		return nil, err
	}

	last := min(pageCount, maxPages)
	for page := 2; page <= last; page++ {
		more, _, err := searchPage(ctx, src, store, query, page)
		if err != nil {
			log.Warnf("%s: page %d of %q: %s", src.Key(), page, query, err)
			break
		}
		results = append(results, more...)
	}

	return results, nil
}

func searchPage(ctx context.Context, src source.Source, store cache.Store, query string, page int) ([]*source.Result, int, error) {
	if store != nil {
		if entry, ok := store.Get(src.Key(), query, page).Get(); ok {
			log.Debugf("%s: cache hit for %q page %d (%s)", src.Key(), query, page, entry.Status)
			if err := entry.Err(); err != nil {
				return nil, 0, err
			}
			return entry.Results, entry.PageCount, nil
		}
		log.Debugf("%s: cache miss for %q page %d", src.Key(), query, page)
	}

	fetched, err := src.SearchPage(ctx, query, page)
	if err != nil {
		if status, ok := cache.StatusOf(err); ok && store != nil {
			store.Put(src.Key(), query, page, status, nil, 0)
		}
		return nil, 0, err
	}

	results := source.Keep(fetched.Results)
	if len(results) == 0 {
		return nil, 0, fmt.Errorf("%s page %d: %w", src.Key(), page, source.ErrEmpty)
	}

	pageCount := max(fetched.PageCount, 1)
	if store != nil {
		store.Put(src.Key(), query, page, cache.StatusOK, results, pageCount)
	}

	return results, pageCount, nil
}

// Detail resolves a title through the memo.
func Detail(ctx context.Context, src source.Source, memo *cache.Details, id string) (*source.Detail, error) {
	if detail, ok := memo.Get(src.Key(), id).Get(); ok {
		return detail, nil
	}

	detail, err := src.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	memo.Set(src.Key(), id, detail)
	return detail, nil
}
