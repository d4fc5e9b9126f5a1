package scrape

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/network"
	"github.com/vodhub/vodhub/source"
)

// challengeMarkers only match interstitial pages. Captcha widgets and the
// bot-management script are embedded in ordinary pages and are not markers.
var challengeMarkers = [][]byte{
	[]byte("cf-browser-verification"),
	[]byte("cf_chl_opt"),
	[]byte(`id="challenge-form"`),
	[]byte("/cdn-cgi/challenge-platform/h/"),
	[]byte("<title>just a moment..."),
	[]byte("<title>attention required! | cloudflare"),
	[]byte("ddos-guard"),
}

// IsChallenge reports whether body is a bot verification page instead of content.
func IsChallenge(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range challengeMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// fetch GETs a page, retrying once after the backoff when a challenge is served.
func (s *Source) fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		resp, err := network.Get(ctx, s.opts.Client, rawURL, s.headers, timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
		}

		if !IsChallenge(resp.Body) {
			if err := resp.Err(); err != nil {
				return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
			}
			return resp.Body, nil
		}

		if attempt > 1 {
			return nil, fmt.Errorf("%s: %s: %w", s.opts.Key, rawURL, source.ErrChallenge)
		}

		log.Warnf("%s: challenge served for %s, retrying in %s", s.opts.Key, rawURL, s.opts.ChallengeBackoff)
		if err := sleep(ctx, s.opts.ChallengeBackoff); err != nil {
			return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return source.Transport(ctx.Err())
	case <-timer.C:
		return nil
	}
}
