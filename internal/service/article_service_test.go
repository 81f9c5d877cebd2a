package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/internal/db/dbtest"
	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/query"
	"newsroom/internal/repository"
)

var writer = model.Principal{UserID: 0, Username: "writer", Role: model.RoleWriter}

func newArticleService(t *testing.T) (ArticleService, repository.ArticleRepository) {
	repo := repository.NewArticleRepository(dbtest.New(t), time.Second)
	return NewArticleService(repo, 6), repo
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Hello, World!", "hello-world"},
		{"  Breaking   News  ", "breaking-news"},
		{"snake_case_title", "snake-case-title"},
		{"--Already--dashed--", "already-dashed"},
		{"!!!", "article"},
		{"", "article"},
		{"Café in Jakarta", "cafe-in-jakarta"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestSlugify_IsBounded(t *testing.T) {
	s := Slugify(strings.Repeat("word ", 100))
	assert.LessOrEqual(t, len(s), maxSlugLength)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestArticleService_CreateAndResolveBySlug(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, writer, ArticleInput{
		Title:   "Hello, World!",
		Content: "First post",
		Tags:    " go , ai,,go ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, "go,ai", created.Tags)
	assert.Nil(t, created.AuthorID)

	detail, err := svc.Detail(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.Article.ID)
	assert.Equal(t, uint(1), detail.Article.Views)
}

func TestArticleService_CreateSlugCollisions(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		a, err := svc.Create(ctx, writer, ArticleInput{Title: "Same Title", Content: "body"})
		require.NoError(t, err)
		slugs = append(slugs, a.Slug)
	}
	assert.Equal(t, []string{"same-title", "same-title-2", "same-title-3"}, slugs)
}

// racingRepo reports every slug as free but rejects the first inserts as duplicates.
type racingRepo struct {
	repository.ArticleRepository
	failures int
	tried    []string
}

func (r *racingRepo) SlugExists(context.Context, string) (bool, error) {
	return false, nil
}

func (r *racingRepo) Create(ctx context.Context, a *model.Article) error {
	r.tried = append(r.tried, a.Slug)
	if r.failures > 0 {
		r.failures--
		return apperr.ErrSlugTaken
	}
	return r.ArticleRepository.Create(ctx, a)
}

func TestArticleService_CreateRetriesSlugRace(t *testing.T) {
	_, base := newArticleService(t)
	repo := &racingRepo{ArticleRepository: base, failures: 2}
	svc := NewArticleService(repo, 6)

	a, err := svc.Create(context.Background(), writer, ArticleInput{Title: "Race", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "race-3", a.Slug)
	assert.Equal(t, []string{"race", "race-2", "race-3"}, repo.tried)

	repo = &racingRepo{ArticleRepository: base, failures: 100}
	svc = NewArticleService(repo, 6)
	_, err = svc.Create(context.Background(), writer, ArticleInput{Title: "Race", Content: "body"})
	assert.ErrorIs(t, err, apperr.ErrSlugTaken)
	assert.Len(t, repo.tried, maxSlugRaces+1)
}

func TestArticleService_CreateValidates(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, writer, ArticleInput{Title: "  ", Content: "body"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, writer, ArticleInput{Title: "Title", Content: ""})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestArticleService_ListAssemblesPage(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, writer, ArticleInput{Title: "Tech story", Content: "body", Category: "Tech", Tags: "go"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, writer, ArticleInput{Title: "Life story", Content: "body", Category: "Life", Tags: "travel"})
	require.NoError(t, err)

	page, err := svc.List(ctx, query.Filter{Category: "Tech"}, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(10), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Articles, 4)
	assert.Equal(t, []string{"Life", "Tech"}, page.Categories)
	assert.ElementsMatch(t, []string{"go", "travel"}, page.Tags)
	assert.Len(t, page.Trending, trendingLimit)

	page, err = svc.List(ctx, query.Filter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Articles, 6)
}

func TestArticleService_DetailCountsViewsAndRelated(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	lead, err := svc.Create(ctx, writer, ArticleInput{Title: "Lead", Content: "body", Category: "Sport"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, writer, ArticleInput{Title: "Other", Content: "body", Category: "Sport"})
		require.NoError(t, err)
	}

	_, err = svc.Detail(ctx, lead.Slug)
	require.NoError(t, err)
	detail, err := svc.Detail(ctx, lead.Slug)
	require.NoError(t, err)

	assert.Equal(t, uint(2), detail.Article.Views)
	assert.Len(t, detail.Related, relatedLimit)
	for _, r := range detail.Related {
		assert.NotEqual(t, lead.ID, r.ID)
	}
	require.NotEmpty(t, detail.Trending)
	assert.Equal(t, lead.ID, detail.Trending[0].ID)

	_, err = svc.Detail(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrArticleNotFound)
}

func TestArticleService_UpdateKeepsSlugAndImage(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, writer, ArticleInput{
		Title: "Original", Content: "body", Image: model.Set("/uploads/1.png"),
	})
	require.NoError(t, err)

	err = svc.Update(ctx, a.ID, ArticleInput{Title: "Renamed", Content: "new body", Tags: "b, a, b"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "original", got.Slug)
	assert.Equal(t, "/uploads/1.png", got.Image)
	assert.Equal(t, "b,a", got.Tags)

	err = svc.Update(ctx, a.ID, ArticleInput{Title: "", Content: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Update(ctx, 999, ArticleInput{Title: "x", Content: "x"})
	assert.ErrorIs(t, err, apperr.ErrArticleNotFound)
}

func TestArticleService_DashboardAndDelete(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 7; i++ {
		a, err := svc.Create(ctx, writer, ArticleInput{Title: "Post", Content: "body"})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), dash.Stats.TotalPosts)
	assert.Len(t, dash.Popular, popularLimit)
	assert.Len(t, dash.Recent, recentLimit)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), apperr.ErrArticleNotFound)

	all, err := svc.ManageList(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
