// Package feed turns RSS and Atom items into article drafts for the
// import command.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/classify"
)

// MaxContent caps an imported article's body, in runes.
const MaxContent = 2000

type Importer struct {
	parser *gofeed.Parser
}

func NewImporter() *Importer {
	return &Importer{parser: gofeed.NewParser()}
}

// Drafts fetches the feed at url and converts its items. An empty category
// lets classify.Classify pick one per item; an empty author falls back to
// the item's author, then the feed's title.
func (im *Importer) Drafts(ctx context.Context, url string, category classify.Category, author string) ([]article.Draft, error) {
	f, err := im.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", url, err)
	}
	return drafts(f, category, author), nil
}

// Drafts is Importer.Drafts with a fresh parser.
func Drafts(ctx context.Context, url string, category classify.Category, author string) ([]article.Draft, error) {
	return NewImporter().Drafts(ctx, url, category, author)
}

func drafts(f *gofeed.Feed, category classify.Category, author string) []article.Draft {
	out := make([]article.Draft, 0, len(f.Items))
	for _, item := range f.Items {
		title := strings.TrimSpace(stripHTML(item.Title))
		body := item.Content
		if body == "" {
			body = item.Description
		}
		body = truncate(stripHTML(body), MaxContent)
		if title == "" && body == "" {
			continue
		}
		if item.Link != "" {
			if body != "" {
				body += "\n\n"
			}
			body += item.Link
		}

		cat := category
		if cat == "" {
			cat = classify.Classify(title, body)
		}

		out = append(out, article.Draft{
			Title:    title,
			Author:   itemAuthor(f, item, author),
			Content:  body,
			Category: string(cat),
		})
	}
	return out
}

func itemAuthor(f *gofeed.Feed, item *gofeed.Item, override string) string {
	if override != "" {
		return override
	}
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	return f.Title
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// stripHTML drops tags and collapses whitespace.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
