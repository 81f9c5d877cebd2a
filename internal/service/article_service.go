package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/query"
	"newsroom/internal/repository"
)

const (
	trendingLimit = 5
	relatedLimit  = 4
	popularLimit  = 5
	recentLimit   = 5

	fallbackSlug  = "article"
	maxSlugLength = 200
	// maxSlugRaces bounds retries when another writer takes a free slug first.
	maxSlugRaces  = 5
	maxSlugSuffix = 1000
)

// ArticleInput is the editable content of an article. On update an unset
// Image keeps the stored one.
type ArticleInput struct {
	Title    string
	Subtitle string
	Content  string
	Category string
	Tags     string
	Image    model.Optional[string]
}

// ArticlePage is one page of the public listing with its sidebar data.
type ArticlePage struct {
	Articles   []model.Article
	Filter     query.Filter
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
	Categories []string
	Tags       []string
	Trending   []model.Article
}

// ArticleDetail is a single article with related and trending lists.
type ArticleDetail struct {
	Article  *model.Article
	Related  []model.Article
	Trending []model.Article
}

// Dashboard is the data shown on the admin landing page.
type Dashboard struct {
	Stats   model.DashboardStats
	Popular []model.Article
	Recent  []model.Article
}

// ArticleService handles publishing and reading articles.
type ArticleService interface {
	List(ctx context.Context, filter query.Filter, page int) (*ArticlePage, error)
	Detail(ctx context.Context, slug string) (*ArticleDetail, error)
	Get(ctx context.Context, id uint) (*model.Article, error)
	Create(ctx context.Context, author model.Principal, in ArticleInput) (*model.Article, error)
	Update(ctx context.Context, id uint, in ArticleInput) error
	Delete(ctx context.Context, id uint) error
	ManageList(ctx context.Context) ([]model.Article, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type articleService struct {
	repo     repository.ArticleRepository
	pageSize int
}

// NewArticleService builds an ArticleService. Non-positive page sizes use query.DefaultPageSize.
func NewArticleService(repo repository.ArticleRepository, pageSize int) ArticleService {
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	return &articleService{repo: repo, pageSize: pageSize}
}

func (s *articleService) List(ctx context.Context, filter query.Filter, page int) (*ArticlePage, error) {
	q := query.BuildList(filter, query.Page{Number: page, Size: s.pageSize})

	articles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.ListTrending(ctx, trendingLimit)
	if err != nil {
		return nil, err
	}

	return &ArticlePage{
		Articles:   articles,
		Filter:     q.Filter,
		Page:       q.Page.Number,
		PageSize:   q.Page.Size,
		Total:      total,
		TotalPages: query.TotalPages(total, q.Page.Size),
		Categories: categories,
		Tags:       tags,
		Trending:   trending,
	}, nil
}

// Detail loads an article by slug, counting one view.
func (s *articleService) Detail(ctx context.Context, slug string) (*ArticleDetail, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	related, err := s.repo.ListRelated(ctx, article.Category, article.ID, relatedLimit)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.ListTrending(ctx, trendingLimit)
	if err != nil {
		return nil, err
	}
	return &ArticleDetail{Article: article, Related: related, Trending: trending}, nil
}

func (s *articleService) Get(ctx context.Context, id uint) (*model.Article, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new article under a slug derived from its title.
func (s *articleService) Create(ctx context.Context, author model.Principal, in ArticleInput) (*model.Article, error) {
	in = trimInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Content:  in.Content,
		Category: in.Category,
		Tags:     model.NormalizeTags(in.Tags),
	}
	if image, ok := in.Image.Get(); ok {
		article.Image = image
	}
	if author.UserID != 0 {
		id := author.UserID
		article.AuthorID = &id
	}

	base := Slugify(in.Title)
	races := 0
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := withSuffix(base, n)
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		article.Slug = candidate
		err = s.repo.Create(ctx, article)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, apperr.ErrSlugTaken) || races >= maxSlugRaces {
			return nil, err
		}
		races++
		article.ID = 0
	}
	return nil, apperr.ErrSlugTaken
}

// Update edits an article. The slug never changes after creation.
func (s *articleService) Update(ctx context.Context, id uint, in ArticleInput) error {
	in = trimInput(in)
	if err := validateInput(in); err != nil {
		return err
	}

	patch := model.ArticlePatch{
		Title:    model.Set(in.Title),
		Subtitle: model.Set(in.Subtitle),
		Content:  model.Set(in.Content),
		Category: model.Set(in.Category),
		Tags:     model.Set(model.NormalizeTags(in.Tags)),
		Image:    in.Image,
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

func (s *articleService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *articleService) ManageList(ctx context.Context) ([]model.Article, error) {
	return s.repo.ListWithAuthors(ctx)
}

func (s *articleService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	popular, err := s.repo.ListTrending(ctx, popularLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Popular: popular, Recent: recent}, nil
}

// Slugify turns a title into a URL slug made of lowercase letters, digits
// and single hyphens. Titles with nothing usable give "article".
func Slugify(title string) string {
	s := strings.ReplaceAll(slug.Make(title), "_", "-")

	var b strings.Builder
	dash := false
	for _, r := range s {
		if r == '-' {
			dash = true
			continue
		}
		if dash && b.Len() > 0 {
			b.WriteByte('-')
		}
		dash = false
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	if out == "" {
		return fallbackSlug
	}
	return out
}

func withSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

func trimInput(in ArticleInput) ArticleInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

func validateInput(in ArticleInput) error {
	if in.Title == "" {
		return apperr.NewValidation("title is required")
	}
	if in.Content == "" {
		return apperr.NewValidation("content is required")
	}
	return nil
}
