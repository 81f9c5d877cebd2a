package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsroom/internal/metrics"
	"newsroom/internal/model"
	"newsroom/internal/service"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	articles service.ArticleService
	metrics  *metrics.Metrics
}

// NewAPIHandler creates the JSON API handler.
func NewAPIHandler(articles service.ArticleService, m *metrics.Metrics) *APIHandler {
	return &APIHandler{articles: articles, metrics: m}
}

// PostListResponse is one page of the article listing.
type PostListResponse struct {
	Posts      []model.Article `json:"posts"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// PostDetailResponse is one article with its related and trending lists.
type PostDetailResponse struct {
	Post     *model.Article  `json:"post"`
	Related  []model.Article `json:"related"`
	Trending []model.Article `json:"trending"`
}

// ListPosts godoc
// @Summary List articles
// @Description Newest first, with optional search, category and tag filters.
// @Tags posts
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param search query string false "Case-insensitive text in title, subtitle or content"
// @Param category query string false "Exact category"
// @Param tag query string false "Whole tag"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *APIHandler) ListPosts(c echo.Context) error {
	page, err := h.articles.List(c.Request().Context(), filterParams(c), pageParam(c))
	if err != nil {
		return err
	}
	posts := page.Articles
	if posts == nil {
		posts = []model.Article{}
	}
	return c.JSON(http.StatusOK, PostListResponse{
		Posts:      posts,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// GetPost godoc
// @Summary Get an article by slug
// @Description Counts one view.
// @Tags posts
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} PostDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{slug} [get]
func (h *APIHandler) GetPost(c echo.Context) error {
	detail, err := h.articles.Detail(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	h.metrics.ArticleViewed()
	return c.JSON(http.StatusOK, PostDetailResponse{
		Post:     detail.Article,
		Related:  detail.Related,
		Trending: detail.Trending,
	})
}
