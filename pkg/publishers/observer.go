package publishers

import (
	"context"
	"time"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
)

const defaultPublishTimeout = 10 * time.Second

// FeedObserver forwards every article it is notified about to a set of publishers.
// Delivery failures are logged; they never stop the remaining publishers or the feed.
type FeedObserver struct {
	ctx        context.Context
	publishers []Publisher
	country    string
	timeout    time.Duration
	log        Logger
	now        func() time.Time
}

// NewFeedObserver builds the observer. ctx bounds every publish; timeout applies per publisher call.
func NewFeedObserver(ctx context.Context, pubs []Publisher, country string, timeout time.Duration, log Logger) *FeedObserver {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &FeedObserver{
		ctx:        ctx,
		publishers: pubs,
		country:    country,
		timeout:    timeout,
		log:        ensureLogger(log),
		now:        time.Now,
	}
}

// Notify publishes the article synchronously to each publisher in order.
func (o *FeedObserver) Notify(article domain.Article) {
	if len(o.publishers) == 0 {
		return
	}

	evt := NewEvent(article, o.country, o.now())
	for _, pub := range o.publishers {
		ctx, cancel := context.WithTimeout(o.ctx, o.timeout)
		err := pub.Publish(ctx, evt)
		cancel()

		if err != nil {
			o.log.WarnObj("publish failed", "publish_error", map[string]any{
				"publisher_id":   pub.ID(),
				"publisher_type": pub.Type(),
				"article_id":     article.ID,
				"error":          err.Error(),
			})
			continue
		}
		o.log.DebugObj("article published", "publish_done", map[string]any{
			"publisher_id": pub.ID(),
			"article_id":   article.ID,
		})
	}
}
