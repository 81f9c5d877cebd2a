package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsroom/internal/metrics"
	"newsroom/internal/query"
	"newsroom/internal/service"
	"newsroom/internal/view"
)

// PublicHandler serves the reader-facing pages.
type PublicHandler struct {
	articles service.ArticleService
	metrics  *metrics.Metrics
}

// NewPublicHandler creates the public site handler.
func NewPublicHandler(articles service.ArticleService, m *metrics.Metrics) *PublicHandler {
	return &PublicHandler{articles: articles, metrics: m}
}

// filterParams reads the listing filters from the query string.
func filterParams(c echo.Context) query.Filter {
	return query.Filter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
	}
}

// Home lists the newest articles with search, category and tag filters.
func (h *PublicHandler) Home(c echo.Context) error {
	page, err := h.articles.List(c.Request().Context(), filterParams(c), pageParam(c))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "index", view.Page{Title: "Latest news", Data: page})
}

// Post shows one article and counts the view.
func (h *PublicHandler) Post(c echo.Context) error {
	detail, err := h.articles.Detail(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	h.metrics.ArticleViewed()
	return render(c, http.StatusOK, "post", view.Page{Title: detail.Article.Title, Data: detail})
}
