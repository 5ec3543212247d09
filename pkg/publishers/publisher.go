package publishers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
)

// Logger is the logging surface used by publishers.
type Logger = logger.Logger

// Publisher delivers headline events to an external sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Event is the wire form of an article announced by the feed.
type Event struct {
	EventID     string    `json:"event_id"`
	ArticleID   string    `json:"article_id"`
	Country     string    `json:"country"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Author      string    `json:"author,omitempty"`
	SourceName  string    `json:"source_name,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
	EmittedAt   time.Time `json:"emitted_at"`
}

// NewEvent builds the event announcing article for the given country.
func NewEvent(article domain.Article, country string, now time.Time) Event {
	return Event{
		EventID:     uuid.NewString(),
		ArticleID:   article.ID,
		Country:     country,
		Title:       article.Title,
		URL:         article.URL,
		Description: article.Description,
		ImageURL:    article.ImageURL,
		Author:      article.Author,
		SourceName:  article.SourceName,
		PublishedAt: article.PublishedAt,
		EmittedAt:   now.UTC(),
	}
}

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
