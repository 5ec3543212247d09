package render

import "github.com/Adda-Baaj/khobor-feed/internal/domain"

// HeadlineRenderer shows the most recent article title; each notification overwrites the last.
type HeadlineRenderer struct {
	page *Page
}

func NewHeadlineRenderer(page *Page) *HeadlineRenderer {
	return &HeadlineRenderer{page: page}
}

func (r *HeadlineRenderer) Notify(article domain.Article) {
	r.page.SetHeadline(article.Title)
}

// ArticleListRenderer appends one list entry per article and never clears the list.
type ArticleListRenderer struct {
	page *Page
}

func NewArticleListRenderer(page *Page) *ArticleListRenderer {
	return &ArticleListRenderer{page: page}
}

func (r *ArticleListRenderer) Notify(article domain.Article) {
	r.page.AppendArticle(article.Title)
}
