package feed

import (
	"testing"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
)

// callLog collects notifications from several observers in arrival order.
type callLog struct {
	calls []string
	seen  []domain.Article
}

type recorder struct {
	name string
	log  *callLog
}

func (r *recorder) Notify(a domain.Article) {
	r.log.calls = append(r.log.calls, r.name)
	r.log.seen = append(r.log.seen, a)
}

func TestAddArticleNotifiesInSubscriptionOrder(t *testing.T) {
	log := &callLog{}
	f := New()
	names := []string{"first", "second", "third"}
	for _, n := range names {
		f.Subscribe(&recorder{name: n, log: log})
	}

	article := domain.Article{ID: "1", Title: "Hello"}
	f.AddArticle(article)

	if len(log.calls) != len(names) {
		t.Fatalf("expected %d notifications, got %d", len(names), len(log.calls))
	}
	for i, n := range names {
		if log.calls[i] != n {
			t.Fatalf("notification %d went to %q, want %q", i, log.calls[i], n)
		}
		if log.seen[i].ID != article.ID || log.seen[i].Title != article.Title {
			t.Fatalf("observer %q got %+v", n, log.seen[i])
		}
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	log := &callLog{}
	f := New()
	keep := &recorder{name: "keep", log: log}
	drop := &recorder{name: "drop", log: log}
	f.Subscribe(keep)
	f.Subscribe(drop)

	f.Unsubscribe(drop)
	f.AddArticle(domain.Article{Title: "After"})

	if len(log.calls) != 1 || log.calls[0] != "keep" {
		t.Fatalf("unexpected notifications: %v", log.calls)
	}
}

func TestDuplicateSubscriptionNotifiesTwice(t *testing.T) {
	log := &callLog{}
	f := New()
	r := &recorder{name: "twice", log: log}
	f.Subscribe(r)
	f.Subscribe(r)

	f.AddArticle(domain.Article{Title: "Echo"})

	if len(log.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(log.calls))
	}

	f.Unsubscribe(r)
	if f.Subscribers() != 0 {
		t.Fatalf("expected all occurrences removed, %d left", f.Subscribers())
	}
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	log := &callLog{}
	f := New()
	f.Subscribe(&recorder{name: "a", log: log})

	f.Unsubscribe(&recorder{name: "stranger", log: log})
	f.Unsubscribe(nil)

	if f.Subscribers() != 1 {
		t.Fatalf("expected subscriber list unchanged, got %d", f.Subscribers())
	}
}

func TestArticlesKeepInsertionOrder(t *testing.T) {
	f := New()
	f.AddArticle(domain.Article{Title: "A"})
	f.AddArticle(domain.Article{Title: "B"})

	got := f.Articles()
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("unexpected articles: %+v", got)
	}

	got[0].Title = "mutated"
	if f.Articles()[0].Title != "A" {
		t.Fatalf("Articles must return a copy")
	}
	if f.Len() != 2 {
		t.Fatalf("unexpected length %d", f.Len())
	}
}

// reentrant unsubscribes itself on first notification.
type reentrant struct {
	feed  *Feed
	calls int
}

func (r *reentrant) Notify(domain.Article) {
	r.calls++
	r.feed.Unsubscribe(r)
}

func TestObserverMayUnsubscribeDuringNotify(t *testing.T) {
	f := New()
	r := &reentrant{feed: f}
	f.Subscribe(r)

	f.AddArticle(domain.Article{Title: "one"})
	f.AddArticle(domain.Article{Title: "two"})

	if r.calls != 1 {
		t.Fatalf("expected a single notification, got %d", r.calls)
	}
}
