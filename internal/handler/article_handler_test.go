package handler_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsroom/internal/access"
	"newsroom/internal/handler"
	"newsroom/internal/model"
	"newsroom/internal/router"
	"newsroom/internal/service"
	"newsroom/internal/upload"
	"newsroom/internal/view"
)

// failingArticles accepts reads but fails every write with a storage error.
type failingArticles struct {
	service.ArticleService
}

func (failingArticles) Get(_ context.Context, id uint) (*model.Article, error) {
	return &model.Article{ID: id, Title: "Stored", Slug: "stored", Image: "/uploads/1.png"}, nil
}

func (failingArticles) Create(context.Context, model.Principal, service.ArticleInput) (*model.Article, error) {
	return nil, errors.New("connection reset")
}

func (failingArticles) Update(context.Context, uint, service.ArticleInput) error {
	return errors.New("connection reset")
}

func imageRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Headline"))
	require.NoError(t, w.WriteField("content", "Body"))
	part, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	p := model.Principal{UserID: 7, Username: "sari", Role: model.RoleWriter}
	return req.WithContext(access.WithPrincipal(req.Context(), p))
}

func TestArticleHandler_FailedSaveRemovesUpload(t *testing.T) {
	dir := t.TempDir()
	uploads, err := upload.NewStore(dir)
	require.NoError(t, err)
	renderer, err := view.New()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Validator = router.NewValidator()
	h := handler.NewArticleHandler(failingArticles{}, uploads, zap.NewNop())

	rec := httptest.NewRecorder()
	err = h.Create(e.NewContext(imageRequest(t, "/admin/add"), rec))
	require.Error(t, err)

	rec = httptest.NewRecorder()
	c := e.NewContext(imageRequest(t, "/admin/edit/3"), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	err = h.Update(c)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
