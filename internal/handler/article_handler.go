package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperr "newsroom/internal/errors"
	"newsroom/internal/logger"
	"newsroom/internal/model"
	"newsroom/internal/service"
	"newsroom/internal/upload"
	"newsroom/internal/view"
)

// ArticleHandler serves the admin dashboard and article management.
type ArticleHandler struct {
	articles service.ArticleService
	uploads  *upload.Store
	log      *zap.Logger
	now      func() time.Time
}

// NewArticleHandler creates the admin article handler.
func NewArticleHandler(articles service.ArticleService, uploads *upload.Store, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, uploads: uploads, log: log, now: time.Now}
}

// ArticleForm is the add and edit article form. The image arrives as a file part.
type ArticleForm struct {
	Title    string `form:"title" validate:"required,max=255"`
	Subtitle string `form:"subtitle" validate:"max=255"`
	Content  string `form:"content" validate:"required"`
	Category string `form:"category" validate:"max=100"`
	Tags     string `form:"tags" validate:"max=500"`
}

// ArticleFormData is what the article form page renders.
type ArticleFormData struct {
	Form   ArticleForm
	ID     uint
	Image  string
	Action string
}

func (f *ArticleForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Content = strings.TrimSpace(f.Content)
	f.Category = strings.TrimSpace(f.Category)
}

func (f ArticleForm) input() service.ArticleInput {
	return service.ArticleInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Content:  f.Content,
		Category: f.Category,
		Tags:     f.Tags,
	}
}

// Dashboard shows totals plus popular and recent articles.
func (h *ArticleHandler) Dashboard(c echo.Context) error {
	dash, err := h.articles.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/dashboard", view.Page{Title: "Dashboard", Active: "dashboard", Data: dash})
}

// List shows every article with its author.
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.articles.ManageList(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/articles", view.Page{Title: "Articles", Active: "articles", Data: articles})
}

// New renders an empty article form.
func (h *ArticleHandler) New(c echo.Context) error {
	return h.form(c, http.StatusOK, ArticleFormData{Action: "/admin/add"}, nil)
}

// Create publishes a new article authored by the signed-in user.
func (h *ArticleHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	data := ArticleFormData{Action: "/admin/add"}
	if err := bindForm(c, &data.Form); err != nil {
		return h.form(c, http.StatusBadRequest, data, err)
	}

	in := data.Form.input()
	if in.Image, err = h.saveImage(c); err != nil {
		return h.formOrFail(c, data, err)
	}

	article, err := h.articles.Create(c.Request().Context(), p, in)
	if err != nil {
		h.discardImage(c, in.Image)
		return h.formOrFail(c, data, err)
	}

	logger.ForRequest(h.log, c).Info("article created",
		zap.Uint("article_id", article.ID),
		zap.String("slug", article.Slug),
		zap.Uint("author_id", p.UserID),
	)
	return c.Redirect(http.StatusSeeOther, "/admin/articles")
}

// Edit renders the form for an existing article.
func (h *ArticleHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	article, err := h.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := ArticleFormData{
		ID:     article.ID,
		Image:  article.Image,
		Action: c.Request().URL.Path,
		Form: ArticleForm{
			Title:    article.Title,
			Subtitle: article.Subtitle,
			Content:  article.Content,
			Category: article.Category,
			Tags:     article.Tags,
		},
	}
	return h.form(c, http.StatusOK, data, nil)
}

// Update saves an edited article. The stored image is kept unless a new one is uploaded.
func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	current, err := h.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := ArticleFormData{ID: id, Image: current.Image, Action: c.Request().URL.Path}
	if err := bindForm(c, &data.Form); err != nil {
		return h.form(c, http.StatusBadRequest, data, err)
	}

	in := data.Form.input()
	if in.Image, err = h.saveImage(c); err != nil {
		return h.formOrFail(c, data, err)
	}

	if err := h.articles.Update(c.Request().Context(), id, in); err != nil {
		h.discardImage(c, in.Image)
		return h.formOrFail(c, data, err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles")
}

// Delete removes an article.
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	logger.ForRequest(h.log, c).Info("article deleted", zap.Uint("article_id", id))
	return c.Redirect(http.StatusSeeOther, "/admin/articles")
}

// saveImage stores the uploaded image, if any. No file means the image is unchanged.
func (h *ArticleHandler) saveImage(c echo.Context) (model.Optional[string], error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return model.Unchanged[string](), nil
		}
		return model.Unchanged[string](), apperr.NewValidation("invalid image upload")
	}
	if fh.Filename == "" || fh.Size == 0 {
		return model.Unchanged[string](), nil
	}
	path, err := h.uploads.Save(fh, h.now())
	if err != nil {
		return model.Unchanged[string](), err
	}
	return model.Set(path), nil
}

// discardImage removes an image saved for a request that was not stored.
func (h *ArticleHandler) discardImage(c echo.Context, image model.Optional[string]) {
	path, ok := image.Get()
	if !ok {
		return
	}
	if err := h.uploads.Remove(path); err != nil {
		logger.ForRequest(h.log, c).Warn("remove orphaned upload", zap.String("path", path), zap.Error(err))
	}
}

func (h *ArticleHandler) formOrFail(c echo.Context, data ArticleFormData, err error) error {
	if isValidation(err) {
		return h.form(c, http.StatusBadRequest, data, err)
	}
	return err
}

func (h *ArticleHandler) form(c echo.Context, status int, data ArticleFormData, err error) error {
	page := view.Page{Title: "New article", Active: "add", Data: data}
	if data.ID != 0 {
		page.Title = "Edit article"
		page.Active = "articles"
	}
	if err != nil {
		page.Error = err.Error()
	}
	return render(c, status, "admin/article_form", page)
}
