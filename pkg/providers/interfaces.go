package providers

import (
	"context"

	"github.com/Adda-Baaj/khobor-feed/pkg/httpclient"
)

// Source retrieves the raw news API payload for a target URL.
// Implementations hide transport quirks such as the CORS proxy envelope,
// so the fetcher always receives the news API's own JSON document.
type Source interface {
	ID() string
	Fetch(ctx context.Context, targetURL string) ([]byte, error)
}

// SourceRegistry resolves the Source implementation for a configured transport.
type SourceRegistry interface {
	SourceFor(transport string) (Source, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
