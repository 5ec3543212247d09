package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adda-Baaj/khobor-feed/internal/domain"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage()
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return p
}

func TestHeadlineRendererLastWriteWins(t *testing.T) {
	p := newTestPage(t)
	r := NewHeadlineRenderer(p)

	r.Notify(domain.Article{Title: "First"})
	r.Notify(domain.Article{Title: "Second"})

	if got := p.Headline(); got != "Second" {
		t.Fatalf("headline = %q, want %q", got, "Second")
	}
}

func TestArticleListRendererAppends(t *testing.T) {
	p := newTestPage(t)
	r := NewArticleListRenderer(p)

	r.Notify(domain.Article{Title: "A"})
	r.Notify(domain.Article{Title: "B"})
	r.Notify(domain.Article{Title: "A"})

	got := p.ArticleTitles()
	want := []string{"A", "B", "A"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("titles = %v, want %v", got, want)
	}
}

func TestArticleTitlesAreEscaped(t *testing.T) {
	p := newTestPage(t)
	NewArticleListRenderer(p).Notify(domain.Article{Title: `<script>alert("x")</script>`})

	out, err := p.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("title was not escaped: %s", out)
	}
	if got := p.ArticleTitles(); len(got) != 1 || got[0] != `<script>alert("x")</script>` {
		t.Fatalf("unexpected titles: %v", got)
	}
}

func TestShowConfig(t *testing.T) {
	p := newTestPage(t)
	p.ShowConfig("dark")

	if got := p.ConfigInfo(); got != "Theme: dark" {
		t.Fatalf("config info = %q", got)
	}

	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `data-theme="dark"`) {
		t.Fatalf("expected theme attribute in output")
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Fatalf("expected doctype to be preserved")
	}
}

func TestParsePageRequiresTargets(t *testing.T) {
	if _, err := ParsePage(strings.NewReader(`<html><body><ul id="articles"></ul></body></html>`)); err == nil {
		t.Fatalf("expected error for template without headline")
	}
}

func TestLoadPageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	tpl := `<html><body><div id="configInfo"></div><div id="headline"><p>old</p></div><ol id="articles"></ol></body></html>`
	if err := os.WriteFile(path, []byte(tpl), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	p, err := LoadPage(path)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	NewHeadlineRenderer(p).Notify(domain.Article{Title: "new"})
	if p.Headline() != "new" {
		t.Fatalf("headline not replaced: %q", p.Headline())
	}
}
