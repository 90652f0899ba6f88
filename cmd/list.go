package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/cache"
)

var (
	flagListCategory string
	flagListSince    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		category, err := resolveCategory(flagListCategory)
		if err != nil {
			return err
		}
		var since time.Time
		if flagListSince != "" {
			d, err := parseSince(flagListSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			since = time.Now().Add(-d)
		}

		logger := cliLogger(cfg)
		gw, err := newGateway(cfg, logger)
		if err != nil {
			return err
		}
		engine := cache.New(cache.Options{Source: gw, Logger: logger})
		if err := engine.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("fetching articles: %w", err)
		}

		articles := newerThan(engine.Project(category), since)
		if len(articles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No articles.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(articles))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListCategory, "category", "", "only show one category (Politika, Sport, Tech)")
	listCmd.Flags().StringVar(&flagListSince, "since", "", "only show articles from the last duration (e.g., 7d, 24h)")
}

// newerThan keeps articles created at or after since. A zero since keeps
// everything.
func newerThan(list []article.Article, since time.Time) []article.Article {
	if since.IsZero() {
		return list
	}
	out := make([]article.Article, 0, len(list))
	for _, a := range list {
		if !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out
}

func renderTable(articles []article.Article) string {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			fmt.Sprint(a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Category,
			a.Author,
			a.Title,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CREATED", "CATEGORY", "AUTHOR", "TITLE").
		Rows(rows...).
		String()
}
