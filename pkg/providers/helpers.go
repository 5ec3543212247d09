package providers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/internal/domain"
)

const newsStatusError = "error"

// hashURL generates a SHA-1 hash of the given URL string.
func hashURL(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// buildTargetURL appends the country and API key query parameters to the configured endpoint.
func buildTargetURL(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", errors.New("config is nil")
	}

	u, err := url.Parse(cfg.APIEndpoint)
	if err != nil {
		return "", fmt.Errorf("parse api endpoint: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("api endpoint %q is not absolute", cfg.APIEndpoint)
	}

	q := u.Query()
	if cfg.CountryCode != "" {
		q.Set("country", cfg.CountryCode)
	}
	if cfg.APIKey != "" {
		q.Set("apiKey", cfg.APIKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fetchBody performs a GET and rejects any non-2xx response.
func fetchBody(ctx context.Context, client HTTPClient, target, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, target, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch via %s: %w", sourceID, err)
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%s returned status %d body: %s", sourceID, resp.StatusCode(), responseSnippet(body))
	}

	return body, nil
}

// newsPayload is the news API document: a status plus the article list.
type newsPayload struct {
	Status   string            `json:"status"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Articles []json.RawMessage `json:"articles"`
}

type newsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	URLToImage  string `json:"urlToImage"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// parseArticles decodes the news API document. A missing articles field yields an empty slice.
func parseArticles(data []byte) ([]domain.Article, error) {
	var payload newsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode news payload: %w", err)
	}
	if strings.EqualFold(payload.Status, newsStatusError) {
		return nil, fmt.Errorf("news api error %s: %s", payload.Code, payload.Message)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, raw := range payload.Articles {
		var item newsArticle
		if err := json.Unmarshal(raw, &item); err != nil {
			// not an object; nothing to render
			continue
		}
		articles = append(articles, buildArticle(item, raw))
	}
	return articles, nil
}

func buildArticle(item newsArticle, raw json.RawMessage) domain.Article {
	link := strings.TrimSpace(item.URL)
	title := strings.TrimSpace(item.Title)

	id := link
	if id == "" {
		id = title
	}

	return domain.Article{
		ID:          hashURL(id),
		Title:       title,
		URL:         link,
		Description: strings.TrimSpace(item.Description),
		ImageURL:    strings.TrimSpace(item.URLToImage),
		Author:      strings.TrimSpace(item.Author),
		SourceName:  strings.TrimSpace(item.Source.Name),
		PublishedAt: parsePublicationDate(item.PublishedAt),
		Raw:         append(json.RawMessage(nil), raw...),
	}
}

// parsePublicationDate attempts to parse the publication date from a string.
func parsePublicationDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}

	return time.Time{}
}
