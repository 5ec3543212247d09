package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

const (
	headlineSelector   = "#headline p"
	articlesSelector   = "#articles"
	configInfoSelector = "#configInfo"
)

//go:embed templates/page.html
var defaultTemplate []byte

// Page is the HTML document the renderers write into.
type Page struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// NewPage parses the embedded page template.
func NewPage() (*Page, error) {
	return ParsePage(bytes.NewReader(defaultTemplate))
}

// LoadPage reads a page template from disk; an empty path selects the embedded template.
func LoadPage(path string) (*Page, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewPage()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page template: %w", err)
	}
	defer f.Close()

	return ParsePage(f)
}

// ParsePage parses an HTML template and checks that the render targets exist.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	for _, sel := range []string{headlineSelector, articlesSelector, configInfoSelector} {
		if doc.Find(sel).Length() == 0 {
			return nil, fmt.Errorf("page template has no %q element", sel)
		}
	}

	return &Page{doc: doc}, nil
}

// SetHeadline replaces the headline text.
func (p *Page) SetHeadline(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doc.Find(headlineSelector).First().SetText(title)
}

// AppendArticle adds a list entry for title.
func (p *Page) AppendArticle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doc.Find(articlesSelector).First().AppendHtml("<li>" + html.EscapeString(title) + "</li>")
}

// ShowConfig displays the active theme.
func (p *Page) ShowConfig(theme string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doc.Find(configInfoSelector).First().SetText("Theme: " + theme)
	p.doc.Find("body").First().SetAttr("data-theme", theme)
}

// Headline returns the current headline text.
func (p *Page) Headline() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.doc.Find(headlineSelector).First().Text()
}

// ArticleTitles returns the list entries in document order.
func (p *Page) ArticleTitles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := p.doc.Find(articlesSelector).First().Children().Filter("li")
	titles := make([]string, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	return titles
}

// ConfigInfo returns the text of the config info element.
func (p *Page) ConfigInfo() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.doc.Find(configInfoSelector).First().Text()
}

// HTML serializes the whole document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out, err := goquery.OuterHtml(p.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return out, nil
}

// WriteTo writes the serialized document to w.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	out, err := p.HTML()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, out)
	return int64(n), err
}
