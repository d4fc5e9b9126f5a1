package source

import (
	"context"
	"errors"
	"net"
)

var (
	ErrNetworkTimeout   = errors.New("network timeout")
	ErrNetwork          = errors.New("network error")
	ErrForbidden        = errors.New("upstream forbidden")
	ErrEmpty            = errors.New("upstream returned no usable records")
	ErrChallenge        = errors.New("bot challenge detected")
	ErrMalformed        = errors.New("malformed response")
	ErrDetailResolution = errors.New("detail resolution failed")
)

// Reason maps an error to the short code carried by failure events.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetworkTimeout):
		return "timeout"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrChallenge):
		return "challenge"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrDetailResolution):
		return "detail"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "network"
	}
}

// Transport classifies a transport-level failure as ErrNetworkTimeout or ErrNetwork.
func Transport(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Join(ErrNetworkTimeout, err)
	}
	return errors.Join(ErrNetwork, err)
}
