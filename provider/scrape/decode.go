package scrape

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Decoder recovers a playable URL from its embedded form.
// The set of decoders is closed: Plain, PercentEncoded and Base64ThenPercentEncoded.
type Decoder interface {
	Decode(raw string) (string, error)
	sealed()
}

// Plain URLs are used as is.
type Plain struct{}

// PercentEncoded URLs are percent-escaped once.
type PercentEncoded struct{}

// Base64ThenPercentEncoded URLs are percent-escaped, then base64 encoded.
type Base64ThenPercentEncoded struct{}

func (Plain) sealed()                    {}
func (PercentEncoded) sealed()           {}
func (Base64ThenPercentEncoded) sealed() {}

func (Plain) Decode(raw string) (string, error) {
	return raw, nil
}

func (PercentEncoded) Decode(raw string) (string, error) {
	return url.PathUnescape(raw)
}

func (Base64ThenPercentEncoded) Decode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
		if err != nil {
			return "", fmt.Errorf("base64: %w", err)
		}
	}

	return url.PathUnescape(string(decoded))
}

// DecoderFor selects the decoder for an encrypt flag. Unknown flags are treated as plain.
func DecoderFor(flag int) Decoder {
	switch flag {
	case 1:
		return PercentEncoded{}
	case 2:
		return Base64ThenPercentEncoded{}
	default:
		return Plain{}
	}
}

// usable reports whether a decoded URL can be handed to a player.
func usable(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
