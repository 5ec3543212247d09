package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/internal/crawler"
	"github.com/Adda-Baaj/khobor-feed/internal/feed"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
	"github.com/Adda-Baaj/khobor-feed/internal/render"
	"github.com/Adda-Baaj/khobor-feed/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-feed/pkg/providers"
	"github.com/Adda-Baaj/khobor-feed/pkg/publishers"
)

// App drives one page load: fetch the headlines, push them through the feed, render the page.
type App struct {
	cfg     *config.Config
	fetcher *providers.NewsFetcher
	scraper *crawler.Scraper
	feed    *feed.Feed
	page    *render.Page
	log     logger.Logger
}

// New wires the fetcher, the feed and both renderers. client may be nil.
func New(cfg *config.Config, client httpclient.Client, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	log = logger.Ensure(log)
	if client == nil {
		client = providers.DefaultHTTPClient(cfg.HTTPTimeout)
	}

	fetcher, err := providers.NewDefaultNewsFetcher(cfg, client, log)
	if err != nil {
		return nil, fmt.Errorf("build news fetcher: %w", err)
	}

	page, err := render.LoadPage(cfg.PageTemplate)
	if err != nil {
		return nil, err
	}
	page.ShowConfig(cfg.Theme)

	f := feed.New()
	f.Subscribe(render.NewHeadlineRenderer(page))
	f.Subscribe(render.NewArticleListRenderer(page))

	var scraper *crawler.Scraper
	if cfg.EnrichArticles {
		scraper = crawler.NewScraper(client, log)
	}

	return &App{
		cfg:     cfg,
		fetcher: fetcher,
		scraper: scraper,
		feed:    f,
		page:    page,
		log:     log,
	}, nil
}

// AttachPublishers subscribes the enabled publishers declared in path to the feed.
// It returns the number of publishers attached.
func (a *App) AttachPublishers(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}

	cfgs, err := publishers.LoadFile(path)
	if err != nil {
		return 0, err
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), publishers.Enabled(cfgs), a.log)
	if err != nil {
		return 0, err
	}
	if len(pubs) == 0 {
		return 0, nil
	}

	a.feed.Subscribe(publishers.NewFeedObserver(ctx, pubs, a.cfg.CountryCode, a.cfg.HTTPTimeout, a.log))

	a.log.InfoObj("publishers attached", "publishers_ready", map[string]any{
		"count": len(pubs),
		"file":  path,
	})
	return len(pubs), nil
}

// Run fetches the headlines once, optionally enriches them, and adds them to the feed in order.
// A failed fetch adds nothing; the returned count is then zero.
func (a *App) Run(ctx context.Context) int {
	articles := a.fetcher.GetArticles(ctx)
	if a.scraper != nil {
		articles = a.scraper.Enrich(ctx, articles)
	}
	for _, article := range articles {
		a.feed.AddArticle(article)
	}

	a.log.InfoObj("feed populated", "feed_ready", map[string]any{
		"articles":    a.feed.Len(),
		"subscribers": a.feed.Subscribers(),
	})
	return len(articles)
}

// Feed exposes the feed so callers can add their own observers.
func (a *App) Feed() *feed.Feed { return a.feed }

// Page returns the rendered page.
func (a *App) Page() *render.Page { return a.page }
