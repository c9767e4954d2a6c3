// Package caption turns a photo into a two-line meme caption via a remote
// generative-AI vision endpoint.
package caption

import (
	"context"
	"errors"
	"strings"
)

// MaxEncodedPayload is the hard cap on the base64-encoded image payload.
// Larger payloads fail fast without touching the network.
const MaxEncodedPayload = 4 << 20

var (
	// ErrQuotaExceeded means the provider rejected the request for
	// rate-limit or quota reasons; retrying later may succeed.
	ErrQuotaExceeded = errors.New("caption: provider quota exceeded")
	// ErrMalformedResponse means the provider answered but the answer did
	// not contain a usable two-part caption.
	ErrMalformedResponse = errors.New("caption: malformed provider response")
	// ErrPayloadTooLarge means the encoded image exceeds MaxEncodedPayload.
	ErrPayloadTooLarge = errors.New("caption: encoded payload too large")
)

// Caption is the pair of short strings overlaid on the image.
type Caption struct {
	Top    string
	Bottom string
}

// Client generates a caption for a JPEG-encoded photo.
type Client interface {
	Generate(ctx context.Context, jpeg []byte) (Caption, error)
}

// Parse splits a provider response on the first '|' into the two caption
// segments, trimming whitespace. Both segments must be non-empty.
func Parse(s string) (Caption, error) {
	top, bottom, ok := strings.Cut(s, "|")
	if !ok {
		return Caption{}, ErrMalformedResponse
	}
	c := Caption{
		Top:    strings.TrimSpace(top),
		Bottom: strings.TrimSpace(bottom),
	}
	if c.Top == "" || c.Bottom == "" {
		return Caption{}, ErrMalformedResponse
	}
	return c, nil
}
