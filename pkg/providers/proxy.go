package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	TransportProxy = "proxy"

	envelopeContentsField = "contents"
)

// proxySource fetches through a CORS-bypass proxy that wraps the upstream
// response body as a JSON string in its "contents" field.
type proxySource struct {
	client   HTTPClient
	proxyURL string
}

// NewProxySource builds a Source that routes requests through proxyURL.
// The target URL is query-escaped and appended to proxyURL verbatim.
func NewProxySource(client HTTPClient, proxyURL string) Source {
	if client == nil {
		client = DefaultHTTPClient(0)
	}
	return &proxySource{
		client:   client,
		proxyURL: strings.TrimSpace(proxyURL),
	}
}

func (s *proxySource) ID() string {
	return TransportProxy
}

// Fetch retrieves the proxy envelope and unwraps the upstream document.
func (s *proxySource) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	if s.proxyURL == "" {
		return nil, errors.New("proxy url is empty")
	}

	body, err := fetchBody(ctx, s.client, s.wrap(targetURL), TransportProxy, nil)
	if err != nil {
		return nil, err
	}

	return unwrapEnvelope(body)
}

func (s *proxySource) wrap(targetURL string) string {
	return s.proxyURL + url.QueryEscape(targetURL)
}

// unwrapEnvelope extracts the JSON-encoded string stored under "contents".
func unwrapEnvelope(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("proxy envelope is not valid json: %s", responseSnippet(body))
	}

	contents := gjson.GetBytes(body, envelopeContentsField)
	if !contents.Exists() {
		return nil, fmt.Errorf("proxy envelope has no %q field", envelopeContentsField)
	}
	if contents.Type != gjson.String {
		return nil, fmt.Errorf("proxy envelope %q is %s, want string", envelopeContentsField, contents.Type)
	}

	return []byte(contents.String()), nil
}
