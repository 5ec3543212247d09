package providers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/pkg/httpclient"
)

const defaultHTTPTimeout = 15 * time.Second

type sourceRegistry struct {
	sources map[string]Source
	mu      sync.RWMutex
}

// NewSourceRegistry builds a registry for the provided source implementations.
func NewSourceRegistry(sources ...Source) SourceRegistry {
	reg := &sourceRegistry{
		sources: make(map[string]Source, len(sources)),
	}

	for _, s := range sources {
		if s == nil {
			continue
		}
		reg.sources[strings.ToLower(strings.TrimSpace(s.ID()))] = s
	}

	return reg
}

// SourceFor selects the source registered for the given transport name.
func (r *sourceRegistry) SourceFor(transport string) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(transport))
	if key == "" {
		return nil, fmt.Errorf("transport is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sources[key]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("no source registered for transport %q", transport)
}

// DefaultHTTPClient returns a resty-backed client with the given timeout.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return httpclient.NewRestyClient(timeout)
}

// DefaultSourceRegistry wires up the proxy and direct transports from cfg.
func DefaultSourceRegistry(client HTTPClient, cfg *config.Config) SourceRegistry {
	if client == nil {
		client = DefaultHTTPClient(cfg.HTTPTimeout)
	}

	return NewSourceRegistry(
		NewProxySource(client, cfg.ProxyURL),
		NewDirectSource(client, cfg.APIKey),
	)
}
