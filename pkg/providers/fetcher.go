package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/internal/domain"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
)

// NewsFetcher retrieves the top headlines described by a Config.
type NewsFetcher struct {
	cfg    *config.Config
	source Source
	log    logger.Logger
}

// NewNewsFetcher builds a fetcher over an explicit source.
func NewNewsFetcher(cfg *config.Config, source Source, log logger.Logger) *NewsFetcher {
	return &NewsFetcher{
		cfg:    cfg,
		source: source,
		log:    logger.Ensure(log),
	}
}

// NewDefaultNewsFetcher picks the source matching cfg.Transport from the default registry.
func NewDefaultNewsFetcher(cfg *config.Config, client HTTPClient, log logger.Logger) (*NewsFetcher, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	src, err := DefaultSourceRegistry(client, cfg).SourceFor(cfg.Transport)
	if err != nil {
		return nil, err
	}
	return NewNewsFetcher(cfg, src, log), nil
}

// Fetch performs the request and reports any failure to the caller.
func (f *NewsFetcher) Fetch(ctx context.Context) ([]domain.Article, error) {
	if f.source == nil {
		return nil, errors.New("news source is nil")
	}

	target, err := buildTargetURL(f.cfg)
	if err != nil {
		return nil, fmt.Errorf("build target url: %w", err)
	}

	f.log.DebugObj("fetching headlines", "fetch_start", map[string]any{
		"source":  f.source.ID(),
		"country": f.cfg.CountryCode,
	})

	payload, err := f.source.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	articles, err := parseArticles(payload)
	if err != nil {
		return nil, err
	}

	f.log.InfoObj("headlines fetched", "fetch_done", map[string]any{
		"source":   f.source.ID(),
		"articles": len(articles),
	})
	return articles, nil
}

// GetArticles returns the fetched articles, or an empty slice on any failure.
// Failures are logged and never returned, so "no headlines" and "fetch failed"
// look the same to the caller.
func (f *NewsFetcher) GetArticles(ctx context.Context) []domain.Article {
	articles, err := f.Fetch(ctx)
	if err != nil {
		f.log.ErrorObj("error fetching news", "fetch_error", map[string]any{
			"error": err.Error(),
		})
		return []domain.Article{}
	}
	return articles
}
