package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsroom/internal/logger"
	"newsroom/internal/model"
	"newsroom/internal/repository"
	"newsroom/internal/service"
)

var (
	articlesFile string
	authorName   string
)

// seedArticle is one entry of the articles file.
type seedArticle struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Image    string `json:"image"`
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Publish articles from a JSON file",
	Long: `Publish every article listed in a JSON array file.

Each entry has title, subtitle, content, category, tags (comma separated)
and image (a path under /uploads/). Slugs are derived from titles.

Examples:
  seed articles --file demo.json
  seed articles --file demo.json --author root`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArticles(cmd.Context())
	},
}

func init() {
	articlesCmd.Flags().StringVarP(&articlesFile, "file", "f", "", "JSON file with articles (required)")
	articlesCmd.Flags().StringVar(&authorName, "author", "", "Username credited as author")
	_ = articlesCmd.MarkFlagRequired("file")
}

func readArticles(path string) ([]seedArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []seedArticle
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return items, nil
}

func runArticles(ctx context.Context) error {
	start := time.Now()
	items, err := readArticles(articlesFile)
	if err != nil {
		return err
	}

	e, err := open()
	if err != nil {
		return err
	}
	defer e.close()

	slugs, err := publishArticles(ctx, e.db, e.cfg.DBTimeout, items, authorName)
	if err != nil {
		return err
	}
	for _, s := range slugs {
		e.log.Debug("article published", zap.String("slug", s))
	}
	e.log.Info("articles published", zap.Int("count", len(slugs)), logger.Since(start))
	return nil
}

// publishArticles creates items in order and returns their slugs. A non-empty
// author must name an existing user.
func publishArticles(ctx context.Context, gormDB *gorm.DB, timeout time.Duration, items []seedArticle, author string) ([]string, error) {
	var principal model.Principal
	if author != "" {
		u, err := repository.NewUserRepository(gormDB, timeout).FindByUsername(ctx, author)
		if err != nil {
			return nil, fmt.Errorf("author %q: %w", author, err)
		}
		principal = u.Principal()
	}

	svc := service.NewArticleService(repository.NewArticleRepository(gormDB, timeout), 0)
	slugs := make([]string, 0, len(items))
	for i, it := range items {
		in := service.ArticleInput{
			Title:    it.Title,
			Subtitle: it.Subtitle,
			Content:  it.Content,
			Category: it.Category,
			Tags:     it.Tags,
		}
		if it.Image != "" {
			in.Image = model.Set(it.Image)
		}
		a, err := svc.Create(ctx, principal, in)
		if err != nil {
			return slugs, fmt.Errorf("article %d (%q): %w", i, it.Title, err)
		}
		slugs = append(slugs, a.Slug)
	}
	return slugs, nil
}
