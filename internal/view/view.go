// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"newsroom/internal/access"
	"newsroom/internal/model"
	"newsroom/internal/query"
)

//go:embed templates
var files embed.FS

// Page is the data every template receives.
type Page struct {
	Title     string
	Principal *model.Principal
	// Active marks the current admin menu entry.
	Active string
	// Error is an inline message shown above forms.
	Error string
	Data  any
}

// Message is the body of the "message" page used for errors and notices.
type Message struct {
	Status int
	Text   string
}

const (
	publicLayout = "templates/layout.html"
	adminLayout  = "templates/admin/layout.html"
)

// pages maps each page name to the layout it is rendered in.
var pages = map[string]string{
	"index":              publicLayout,
	"post":               publicLayout,
	"login":              publicLayout,
	"register":           publicLayout,
	"message":            publicLayout,
	"admin/dashboard":    adminLayout,
	"admin/articles":     adminLayout,
	"admin/article_form": adminLayout,
	"admin/users":        adminLayout,
	"admin/user_form":    adminLayout,
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses every page with its layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for name, layout := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, layout, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var funcs = template.FuncMap{
	"can": func(p *model.Principal, action string) bool {
		return access.Can(p, access.Action(action))
	},
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006")
	},
	"excerpt": excerpt,
	"tags":    model.SplitTags,
	"add":     func(a, b int) int { return a + b },
	"sub":     func(a, b int) int { return a - b },
	"pages": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"pageURL": PageURL,
}

// PageURL links to page n of the listing, keeping the active filters.
func PageURL(f query.Filter, n int) string {
	v := url.Values{}
	if n > 1 {
		v.Set("page", strconv.Itoa(n))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Tag != "" {
		v.Set("tag", f.Tag)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
