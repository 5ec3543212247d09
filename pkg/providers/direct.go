package providers

import (
	"context"
	"strings"
)

const (
	TransportDirect = "direct"

	apiKeyHeader = "X-Api-Key"
)

// directSource calls the news API without a proxy, authenticating with a header.
type directSource struct {
	client HTTPClient
	apiKey string
}

// NewDirectSource builds a Source for servers that can reach the news API directly.
func NewDirectSource(client HTTPClient, apiKey string) Source {
	if client == nil {
		client = DefaultHTTPClient(0)
	}
	return &directSource{
		client: client,
		apiKey: strings.TrimSpace(apiKey),
	}
}

func (s *directSource) ID() string {
	return TransportDirect
}

func (s *directSource) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	var headers map[string]string
	if s.apiKey != "" {
		headers = map[string]string{apiKeyHeader: s.apiKey}
	}
	return fetchBody(ctx, s.client, targetURL, TransportDirect, headers)
}
