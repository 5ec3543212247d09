package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/internal/domain"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
)

func proxyServer(t *testing.T, inner string) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(map[string]string{"contents": inner})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(proxyURL string) *config.Config {
	return &config.Config{
		Theme:       "dark",
		APIEndpoint: "https://newsapi.org/v2/top-headlines",
		APIKey:      "k",
		CountryCode: "us",
		ProxyURL:    proxyURL,
		Transport:   config.TransportProxy,
		HTTPTimeout: 5 * time.Second,
	}
}

func TestRunRendersFetchedHeadlines(t *testing.T) {
	srv := proxyServer(t, `{"articles":[{"title":"A"},{"title":"B"}]}`)

	a, err := New(testConfig(srv.URL+"/get?url="), nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	n := a.Run(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, "B", a.Page().Headline())
	assert.Equal(t, []string{"A", "B"}, a.Page().ArticleTitles())
	assert.Equal(t, "Theme: dark", a.Page().ConfigInfo())
	assert.Equal(t, 2, a.Feed().Len())
}

func TestRunWithFailedFetchLeavesPageEmpty(t *testing.T) {
	srv := proxyServer(t, `not json`)

	a, err := New(testConfig(srv.URL+"/get?url="), nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	assert.Equal(t, 0, a.Run(context.Background()))
	assert.Equal(t, "", a.Page().Headline())
	assert.Equal(t, 0, len(a.Page().ArticleTitles()))
}

type countingObserver struct {
	mu    sync.Mutex
	count int
}

func (c *countingObserver) Notify(domain.Article) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func TestFeedAcceptsExtraObservers(t *testing.T) {
	srv := proxyServer(t, `{"articles":[{"title":"only"}]}`)
	a, err := New(testConfig(srv.URL+"/get?url="), nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	extra := &countingObserver{}
	a.Feed().Subscribe(extra)
	a.Run(context.Background())

	assert.Equal(t, 1, extra.count)
}

func TestAttachPublishersDeliversEvents(t *testing.T) {
	var (
		mu     sync.Mutex
		titles []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt struct {
			Title string `json:"title"`
		}
		_ = json.NewDecoder(r.Body).Decode(&evt)
		mu.Lock()
		titles = append(titles, evt.Title)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	path := filepath.Join(t.TempDir(), "publishers.yaml")
	body := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: " + hook.URL + "\n  - id: off\n    type: http\n    enabled: false\n    http:\n      url: http://127.0.0.1:1\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write publishers: %v", err)
	}

	srv := proxyServer(t, `{"articles":[{"title":"A"},{"title":"B"}]}`)
	a, err := New(testConfig(srv.URL+"/get?url="), nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	n, err := a.AttachPublishers(context.Background(), path)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	assert.Equal(t, 1, n)

	a.Run(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestAttachPublishersEmptyPath(t *testing.T) {
	a, err := New(testConfig("https://proxy.example/get?url="), nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	n, err := a.AttachPublishers(context.Background(), "")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, n)
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestRunEnrichesArticlesWhenEnabled(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:description" content="scraped"></head></html>`))
	}))
	defer page.Close()

	srv := proxyServer(t, `{"articles":[{"title":"A","url":"`+page.URL+`/a"}]}`)
	cfg := testConfig(srv.URL + "/get?url=")
	cfg.EnrichArticles = true

	a, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	a.Run(context.Background())

	got := a.Feed().Articles()
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "scraped", got[0].Description)
	assert.Equal(t, "A", a.Page().Headline())
}
