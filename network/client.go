// Package network provides the HTTP clients used to talk to catalog providers.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vodhub/vodhub/source"
	"github.com/vodhub/vodhub/util"
)

// maxBody caps how much of a provider response is read.
const maxBody = 8 << 20

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the shared client for structured API providers.
// Timeouts are applied per request through the context.
var Client = &http.Client{
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Response is a fully read upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err maps a non-2xx status onto the error taxonomy.
func (r *Response) Err() error {
	switch {
	case r.OK():
		return nil
	case r.Status == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", r.Status, source.ErrForbidden)
	default:
		return fmt.Errorf("status %d: %w", r.Status, source.ErrNetwork)
	}
}

// Get issues a GET bounded by timeout and reads the whole body.
// Transport failures are classified as source.ErrNetworkTimeout or source.ErrNetwork.
func Get(ctx context.Context, doer Doer, rawURL string, headers map[string]string, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, source.Transport(err)
	}
	defer util.Ignore(resp.Body.Close)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, source.Transport(err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}
