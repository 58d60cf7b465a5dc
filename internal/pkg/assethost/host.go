package assethost

import (
	"context"
)

// Asset describes a hosted image: where the full file and its preview live,
// plus an out-of-band reference the host accepts for deletion. The delete
// reference is a credential and must never reach public API responses.
type Asset struct {
	URL          string
	ThumbnailURL string
	DeleteRef    string
}

// Host is the boundary to the external image-hosting provider.
type Host interface {
	// Upload stores the image bytes and returns the hosted asset locations.
	Upload(ctx context.Context, filename string, data []byte, contentType string) (*Asset, error)

	// Delete removes a previously uploaded asset by its delete reference.
	// Best-effort: hosts that expose no deletion API return nil.
	Delete(ctx context.Context, deleteRef string) error
}
