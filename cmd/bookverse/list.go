package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/di"
	"github.com/bookverseapp/bookverse/internal/di/providers"
	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/gateway"
	"github.com/bookverseapp/bookverse/internal/selector"
)

type listOptions struct {
	search  string
	genreID int64
	json    bool
}

func newListCmd(flags *config.Flags) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog once and exit",
		Long: `Fetches the catalog, applies the search and genre filters the way the
dashboard does, and prints the visible books as a table or as JSON.

Example:
  bookverse list --search dune
  bookverse list --genre 2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.genreID < 0 {
				return fmt.Errorf("invalid genre id %d", opts.genreID)
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), *flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.search, "search", "", "case-insensitive match on title or author")
	cmd.Flags().Int64Var(&opts.genreID, "genre", 0, "only books of this genre id")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	return cmd
}

func runList(ctx context.Context, out io.Writer, flags config.Flags, opts listOptions) error {
	injector := di.NewContainer(flags, providers.SinkStderr)
	defer closeContainer(injector)

	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	gw, err := do.Invoke[*providers.GatewayHandle](injector)
	if err != nil {
		return err
	}

	// Genres first, so books that only reference a genre id get its name.
	genres, err := gw.ListGenres(ctx)
	if err != nil {
		return fmt.Errorf("list genres: %w", err)
	}

	filter := domain.Filter{SearchQuery: opts.search}
	var res gateway.Result[[]domain.Book]
	if opts.genreID != 0 {
		filter.SelectedGenreID = domain.GenreID(opts.genreID)
	}
	// A genre the server does not know selects nothing; the full list goes
	// through the filter so it comes out empty.
	if _, known := domain.FindGenre(genres.Data, opts.genreID); known {
		res, err = gw.ListBooksByGenre(ctx, opts.genreID)
		if errors.CodeOf(err) == errors.CodeNotFound {
			res, err = gateway.Result[[]domain.Book]{}, nil
		}
	} else {
		res, err = gw.ListBooks(ctx)
	}
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	books := selector.ApplyFilter(res.Data, filter)

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	}
	return printBooks(out, books, len(res.Data), len(genres.Data))
}

func printBooks(out io.Writer, books []domain.Book, total, genres int) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(out, "No books found\nTry adjusting your search or filters")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "AUTHOR", "GENRE", "STATUS")
	for _, b := range books {
		t.Row(fmt.Sprint(b.ID), b.Title, b.Author, b.Genre.Name, b.Status.Label())
	}

	s := selector.Summarize(books)
	_, err := fmt.Fprintf(out, "%s\n%d of %d books across %d genres (to read %d, in progress %d, read %d)\n",
		t.Render(), len(books), total, genres, s.ToRead, s.InProgress, s.Read)
	return err
}
