package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/rebook/internal/catalog"
	"github.com/xiebiao/rebook/internal/client"
)

type booksOptions struct {
	search   string
	category string
	status   string
	latest   bool
	watch    bool
}

func newBooksCmd(a *app) *cobra.Command {
	var opts booksOptions

	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"ls"},
		Short:   "List and filter the catalog",
		Example: `  rebook books --search dune
  rebook books --category Fiction --status available
  rebook books --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			pred, err := a.predicate(cmd.Context(), opts)
			if err != nil {
				return err
			}

			sort := client.SortDefault
			if opts.latest {
				sort = client.SortLatest
			}
			fetcher := catalog.NewFetcher(a.client, a.session, catalog.FetcherConfig{
				Interval: a.pollInterval(),
				Sort:     sort,
			})
			board := catalog.NewBoard(pred)

			if opts.watch {
				return a.watch(cmd.Context(), fetcher, board)
			}

			if err := fetcher.Poll(cmd.Context()); err != nil {
				return err
			}
			renderView(a.out, board.Update(fetcher.State()))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.search, "search", "s", "", "match title or author (case-insensitive)")
	flags.StringVarP(&opts.category, "category", "c", "", "category id or name")
	flags.StringVar(&opts.status, "status", "All", "All, Available or Unavailable")
	flags.BoolVar(&opts.latest, "latest", false, "newest books first")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "keep polling and redraw on change")
	return cmd
}

func newLatestCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the newest books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			list, err := a.client.Books(cmd.Context(), a.session, client.SortLatest)
			if err != nil {
				return err
			}
			books := catalog.BooksFromWire(list)
			if limit > 0 && len(books) > limit {
				books = books[:limit]
			}
			renderBooks(a.out, books)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of books to show (0 for all)")
	return cmd
}

// predicate 命令行参数 → 筛选条件
// 分类可以是ID或名称，名称需要先拉取分类列表
func (a *app) predicate(ctx context.Context, opts booksOptions) (catalog.Predicate, error) {
	status, err := catalog.ParseStatusFilter(opts.status)
	if err != nil {
		return catalog.Predicate{}, err
	}
	pred := catalog.Predicate{Search: strings.TrimSpace(opts.search), Status: status}

	if opts.category == "" {
		return pred, nil
	}
	if id, err := strconv.ParseUint(opts.category, 10, 64); err == nil {
		pred.CategoryID = uint(id)
		return pred, nil
	}

	cats, err := a.client.Categories(ctx, a.session)
	if err != nil {
		return catalog.Predicate{}, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, opts.category) {
			pred.CategoryID = c.ID
			return pred, nil
		}
	}
	return catalog.Predicate{}, fmt.Errorf("unknown category %q", opts.category)
}

// watch 持续轮询并重绘，Ctrl-C退出
func (a *app) watch(ctx context.Context, f *catalog.Fetcher, b *catalog.Board) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.Run(gctx)
	})
	g.Go(func() error {
		return b.Follow(gctx, f, func(v catalog.View) {
			fmt.Fprint(a.out, clearScreen)
			renderView(a.out, v)
		})
	})
	return g.Wait()
}
