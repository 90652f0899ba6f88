package cmd

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/classify"
	"github.com/matakom/informator-3000/internal/feed"
	"github.com/matakom/informator-3000/internal/gateway"
)

// importWorkers bounds concurrent create requests.
const importWorkers = 4

var (
	flagImportCategory string
	flagImportAuthor   string
	flagImportDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <feed-url>",
	Short: "Publish the items of an RSS or Atom feed as articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		category, err := resolveCategory(flagImportCategory)
		if err != nil {
			return err
		}

		drafts, err := feed.Drafts(cmd.Context(), args[0], classify.Category(category), flagImportAuthor)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagImportDryRun {
			for _, d := range drafts {
				fmt.Fprintf(out, "[%s] %s (%s)\n", d.Category, d.Title, d.Author)
			}
			fmt.Fprintf(out, "%d item(s) would be published.\n", len(drafts))
			return nil
		}

		gw, err := newGateway(cfg, cliLogger(cfg))
		if err != nil {
			return err
		}
		published, failed := publishAll(cmd, gw, drafts)
		fmt.Fprintf(out, "Published %d of %d item(s).\n", published, len(drafts))
		if failed > 0 {
			return fmt.Errorf("%d item(s) could not be published", failed)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportCategory, "category", "", "category for every item (default: classify each item)")
	importCmd.Flags().StringVar(&flagImportAuthor, "author", "", "author for every item (default: the feed's author)")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "print the drafts without publishing")
}

func publishAll(cmd *cobra.Command, gw *gateway.Gateway, drafts []article.Draft) (published, failed int64) {
	var ok, bad atomic.Int64
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(importWorkers)
	for _, d := range drafts {
		g.Go(func() error {
			if gw.Create(ctx, d) {
				ok.Add(1)
			} else {
				bad.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return ok.Load(), bad.Load()
}
