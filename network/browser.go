package network

// The browser transport presents a Chrome ClientHello through
// refraction-networking/utls. Scraped sites behind Cloudflare or DDoS-Guard
// reject the default Go TLS fingerprint.
//
// HTTP/2 is attempted first; when the handshake or the h2 exchange fails the
// request is replayed over HTTP/1.1 with http/1.1 forced in ALPN. Plain http
// URLs skip TLS entirely.

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/vodhub/vodhub/constant"
	"golang.org/x/net/http2"
)

const dialTimeout = 10 * time.Second

// BrowserHeaders are sent with every scraped request unless a provider overrides them.
var BrowserHeaders = map[string]string{
	"User-Agent":      constant.UserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

// BrowserTransport is an http.RoundTripper with a browser TLS fingerprint.
type BrowserTransport struct {
	h1     *http.Transport
	h2     *http2.Transport
	h2Once sync.Once
}

// NewBrowserTransport returns a ready transport.
func NewBrowserTransport() *BrowserTransport {
	return &BrowserTransport{
		h1: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     30 * time.Second,
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, []string{"http/1.1"})
			},
		},
	}
}

// BrowserClient is the shared client for scraped providers.
var BrowserClient = &http.Client{
	Transport: NewBrowserTransport(),
}

func (t *BrowserTransport) http2() *http2.Transport {
	t.h2Once.Do(func() {
		t.h2 = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return t.h2
}

// RoundTrip implements http.RoundTripper.
func (t *BrowserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.http2().RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, req.Context().Err()
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, err
		}
	}
	return t.h1.RoundTrip(retry)
}

// dialTLS opens a connection that mimics Chrome 120. A nil protos keeps
// Chrome's own ALPN list (h2, http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
