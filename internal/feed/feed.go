package feed

import (
	"sync"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
)

// Observer receives every article added to a Feed.
// Implementations must be comparable (typically pointer types); Unsubscribe
// matches observers by interface equality.
type Observer interface {
	Notify(article domain.Article)
}

// Feed is an in-memory, append-only list of articles with synchronous subscribers.
type Feed struct {
	mu        sync.Mutex
	articles  []domain.Article
	observers []Observer
}

// New returns an empty Feed.
func New() *Feed {
	return &Feed{}
}

// Subscribe appends o to the subscriber list. Subscribing the same observer
// twice delivers each article to it twice.
func (f *Feed) Subscribe(o Observer) {
	if o == nil {
		return
	}

	f.mu.Lock()
	f.observers = append(f.observers, o)
	f.mu.Unlock()
}

// Unsubscribe removes every occurrence of o. Unknown observers are ignored.
func (f *Feed) Unsubscribe(o Observer) {
	if o == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.observers[:0]
	for _, existing := range f.observers {
		if existing != o {
			kept = append(kept, existing)
		}
	}
	clear(f.observers[len(kept):])
	f.observers = kept
}

// AddArticle records the article and notifies the current subscribers in
// subscription order before returning.
func (f *Feed) AddArticle(article domain.Article) {
	f.mu.Lock()
	f.articles = append(f.articles, article)
	observers := make([]Observer, len(f.observers))
	copy(observers, f.observers)
	f.mu.Unlock()

	// called outside the lock so observers may use the feed
	for _, o := range observers {
		o.Notify(article)
	}
}

// Articles returns a copy of the articles in insertion order.
func (f *Feed) Articles() []domain.Article {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Article, len(f.articles))
	copy(out, f.articles)
	return out
}

// Len reports the number of articles added so far.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.articles)
}

// Subscribers reports how many subscriptions are active.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}
