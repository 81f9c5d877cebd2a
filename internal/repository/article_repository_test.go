package repository

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newsroom/internal/db/dbtest"
	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/query"
)

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newArticleRepo(t *testing.T) (ArticleRepository, *gorm.DB) {
	gormDB := dbtest.New(t)
	return NewArticleRepository(gormDB, time.Second), gormDB
}

// seedArticle inserts an article created i minutes after baseTime.
func seedArticle(t *testing.T, repo ArticleRepository, i int, a model.Article) *model.Article {
	t.Helper()
	if a.Slug == "" {
		a.Slug = fmt.Sprintf("post-%d", i)
	}
	if a.Title == "" {
		a.Title = fmt.Sprintf("Post %d", i)
	}
	a.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
	require.NoError(t, repo.Create(context.Background(), &a))
	return &a
}

func TestArticleRepository_ListPagination(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()
	for i := 1; i <= 10; i++ {
		seedArticle(t, repo, i, model.Article{Category: "Tech"})
	}

	q := query.BuildList(query.Filter{Category: "Tech"}, query.Page{Number: 2, Size: 6})
	articles, total, err := repo.List(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, int64(10), total)
	assert.Len(t, articles, 4)
	assert.Equal(t, 2, query.TotalPages(total, 6))
	// newest first: page 2 starts after posts 10..5
	assert.Equal(t, "post-4", articles[0].Slug)
	assert.Equal(t, "post-1", articles[3].Slug)
}

func TestArticleRepository_ListPageFarPastEnd(t *testing.T) {
	repo, _ := newArticleRepo(t)
	for i := 1; i <= 3; i++ {
		seedArticle(t, repo, i, model.Article{})
	}

	articles, total, err := repo.List(context.Background(),
		query.BuildList(query.Filter{}, query.Page{Number: math.MaxInt, Size: 6}))
	require.NoError(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, int64(3), total)
}

func TestArticleRepository_CountMatchesData(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()

	seedArticle(t, repo, 1, model.Article{Title: "Go generics", Category: "Tech", Tags: "go,ai"})
	seedArticle(t, repo, 2, model.Article{Title: "Fresh air", Subtitle: "Outdoors", Category: "Life", Tags: "air, outdoors"})
	seedArticle(t, repo, 3, model.Article{Title: "AI in newsrooms", Content: "How GO is used", Category: "Tech", Tags: "ai"})
	seedArticle(t, repo, 4, model.Article{Title: "Untagged", Category: ""})
	seedArticle(t, repo, 5, model.Article{Title: "100% real", Content: "percent", Tags: "Media , AI"})

	filters := []query.Filter{
		{},
		{Search: "go"},
		{Search: "AI"},
		{Search: "100%"},
		{Category: "Tech"},
		{Tag: "ai"},
		{Tag: "air"},
		{Search: "go", Category: "Tech"},
		{Search: "go", Tag: "ai"},
		{Category: "Tech", Tag: "ai"},
		{Search: "in", Category: "Tech", Tag: "ai"},
		{Category: "Nothing"},
	}

	for _, f := range filters {
		t.Run(fmt.Sprintf("%+v", f), func(t *testing.T) {
			first, total, err := repo.List(ctx, query.BuildList(f, query.Page{Number: 1, Size: 1}))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(first), 1)

			size := int(total)
			if size == 0 {
				size = 1
			}
			all, total2, err := repo.List(ctx, query.BuildList(f, query.Page{Number: 1, Size: size}))
			require.NoError(t, err)
			assert.Equal(t, total, total2)
			assert.Len(t, all, int(total))
		})
	}
}

func TestArticleRepository_TagFilterMatchesWholeTag(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()

	seedArticle(t, repo, 1, model.Article{Slug: "air", Tags: "air"})
	seedArticle(t, repo, 2, model.Article{Slug: "ai", Tags: "ai"})
	seedArticle(t, repo, 3, model.Article{Slug: "spaced", Tags: "policy, AI , air"})
	seedArticle(t, repo, 4, model.Article{Slug: "chair", Tags: "chair,aid"})

	articles, total, err := repo.List(ctx, query.BuildList(query.Filter{Tag: "ai"}, query.Page{Number: 1, Size: 10}))
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	slugs := []string{articles[0].Slug, articles[1].Slug}
	assert.ElementsMatch(t, []string{"ai", "spaced"}, slugs)
}

func TestArticleRepository_SearchEscapesWildcards(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()

	seedArticle(t, repo, 1, model.Article{Title: "Save 100% now"})
	seedArticle(t, repo, 2, model.Article{Title: "Save 1000 now"})

	articles, total, err := repo.List(ctx, query.BuildList(query.Filter{Search: "100%"}, query.Page{Number: 1, Size: 10}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Save 100% now", articles[0].Title)

	_, total, err = repo.List(ctx, query.BuildList(query.Filter{Search: "SAVE"}, query.Page{Number: 1, Size: 10}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestArticleRepository_GetBySlugCountsViews(t *testing.T) {
	repo, gormDB := newArticleRepo(t)
	ctx := context.Background()
	created := seedArticle(t, repo, 1, model.Article{Slug: "hello-world", Title: "Hello, World!"})

	first, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, uint(1), first.Views)

	second, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Views)

	var stored model.Article
	require.NoError(t, gormDB.First(&stored, created.ID).Error)
	assert.Equal(t, uint(2), stored.Views)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrArticleNotFound)
}

func TestArticleRepository_RelatedAndTrending(t *testing.T) {
	repo, gormDB := newArticleRepo(t)
	ctx := context.Background()

	self := seedArticle(t, repo, 1, model.Article{Category: "Sport"})
	for i := 2; i <= 7; i++ {
		seedArticle(t, repo, i, model.Article{Category: "Sport", Views: uint(i)})
	}
	seedArticle(t, repo, 8, model.Article{Category: "Politics", Views: 100})

	related, err := repo.ListRelated(ctx, "Sport", self.ID, 4)
	require.NoError(t, err)
	require.Len(t, related, 4)
	assert.Equal(t, "post-7", related[0].Slug)
	for _, a := range related {
		assert.NotEqual(t, self.ID, a.ID)
		assert.Equal(t, "Sport", a.Category)
	}

	none, err := repo.ListRelated(ctx, "", self.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, gormDB.Model(&model.Article{}).Where("id = ?", self.ID).Update("views", 50).Error)
	trending, err := repo.ListTrending(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, "post-8", trending[0].Slug)
	assert.Equal(t, "post-1", trending[1].Slug)
	assert.Equal(t, "post-7", trending[2].Slug)
}

func TestArticleRepository_Facets(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()

	seedArticle(t, repo, 1, model.Article{Category: "Tech", Tags: "go, ai"})
	seedArticle(t, repo, 2, model.Article{Category: "Life", Tags: "ai,travel"})
	seedArticle(t, repo, 3, model.Article{Category: "Tech"})
	seedArticle(t, repo, 4, model.Article{})

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Life", "Tech"}, categories)

	tags, err := repo.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "travel", "go"}, tags)
}

func TestArticleRepository_UpdateKeepsImageWhenUnchanged(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()
	a := seedArticle(t, repo, 1, model.Article{Image: "/uploads/1.png", Tags: "old"})

	err := repo.Update(ctx, a.ID, model.ArticlePatch{
		Title: model.Set("New title"),
		Tags:  model.Set("new,tags"),
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "new,tags", got.Tags)
	assert.Equal(t, "/uploads/1.png", got.Image)
	assert.Equal(t, a.Slug, got.Slug)
	require.NotNil(t, got.UpdatedAt)

	require.NoError(t, repo.Update(ctx, a.ID, model.ArticlePatch{Image: model.Set("/uploads/2.png")}))
	got, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2.png", got.Image)
	assert.Equal(t, "New title", got.Title)

	err = repo.Update(ctx, 9999, model.ArticlePatch{Title: model.Set("x")})
	assert.ErrorIs(t, err, apperr.ErrArticleNotFound)
}

func TestArticleRepository_CreateDuplicateSlug(t *testing.T) {
	repo, _ := newArticleRepo(t)
	ctx := context.Background()
	seedArticle(t, repo, 1, model.Article{Slug: "same"})

	err := repo.Create(ctx, &model.Article{Title: "Again", Slug: "same"})
	assert.ErrorIs(t, err, apperr.ErrSlugTaken)

	exists, err := repo.SlugExists(ctx, "same")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestArticleRepository_DeleteAndStats(t *testing.T) {
	repo, gormDB := newArticleRepo(t)
	ctx := context.Background()

	author := model.User{Username: "rina", PasswordHash: "x", Role: model.RoleWriter}
	require.NoError(t, gormDB.Create(&author).Error)

	a := seedArticle(t, repo, 1, model.Article{AuthorID: &author.ID, Views: 3})
	seedArticle(t, repo, 2, model.Article{AuthorID: &author.ID, Views: 4})
	seedArticle(t, repo, 3, model.Article{Views: 5})

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{TotalPosts: 3, TotalViews: 12, TotalAuthors: 1}, stats)

	listed, err := repo.ListWithAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "", listed[0].AuthorName)
	assert.Equal(t, "rina", listed[2].AuthorName)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "post-3", recent[0].Slug)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), apperr.ErrArticleNotFound)
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ErrArticleNotFound)
}
