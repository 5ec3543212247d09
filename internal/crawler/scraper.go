package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
	"github.com/Adda-Baaj/khobor-feed/pkg/httpclient"
)

const (
	maxHTMLBodyBytes  = 1 << 20 // 1 MiB
	maxArticleWorkers = 10
)

// Scraper fills in missing article metadata from the article pages' Open Graph tags.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	return &Scraper{client: client, log: logger.Ensure(log)}
}

// Enrich returns a copy of articles where entries lacking a description or
// image have been completed from their pages. Order is preserved; articles
// that cannot be scraped are returned unchanged.
func (s *Scraper) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles) // default to originals so partial results are returned on cancel

	var todo []int
	for i, art := range articles {
		if needsEnrichment(art) {
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return out
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := range min(len(todo), maxArticleWorkers) {
		wg.Add(1)
		go s.articleWorker(ctx, articles, jobCh, out, &wg, workerID)
	}

	for _, idx := range todo {
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()

	return out
}

func needsEnrichment(art domain.Article) bool {
	return art.URL != "" && (art.Description == "" || art.ImageURL == "")
}

// articleWorker enriches the articles whose indexes arrive on jobCh; each index is written by one worker only.
func (s *Scraper) articleWorker(
	ctx context.Context,
	articles []domain.Article,
	jobCh <-chan int,
	out []domain.Article,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			continue
		}

		art := articles[idx]
		enriched, err := s.fetchAndParse(ctx, art, workerID)
		if err != nil {
			s.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"worker_id":  workerID,
				"article_id": art.ID,
				"url":        art.URL,
				"error":      err.Error(),
			})
			continue
		}
		out[idx] = enriched
	}
}

func (s *Scraper) fetchAndParse(ctx context.Context, art domain.Article, workerID int) (domain.Article, error) {
	s.log.DebugObj("scraping article metadata", "scrape_start", map[string]any{
		"worker_id": workerID,
		"url":       art.URL,
	})

	resp, err := s.client.Get(ctx, art.URL, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if !resp.IsSuccess() {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if updated.Title == "" {
		updated.Title = meta.Title
	}
	if updated.Description == "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" && meta.ImageURL != "" {
		updated.ImageURL = resolveURL(meta.ImageURL, art.URL)
	}
	return updated, nil
}

// pageMeta holds metadata extracted from an HTML page.
type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	content := func(sel string) string {
		if val, ok := doc.Find(sel).First().Attr("content"); ok {
			return strings.TrimSpace(val)
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			content(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			content(`meta[property="og:description"]`),
			content(`meta[name="description"]`),
		),
		ImageURL: content(`meta[property="og:image"]`),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// resolveURL resolves a possibly relative URL against base.
func resolveURL(raw, base string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(parsed).String()
}
