package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeafMist/dept-site/backend/internal/loader"
	"github.com/DeafMist/dept-site/backend/internal/models"
	"github.com/DeafMist/dept-site/backend/internal/processing"
	"github.com/DeafMist/dept-site/backend/internal/search"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		types  []string
		tags   []string
		limit  int
		offset int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search all content",
		Long: `Builds the search index from the content directory and runs a
ranked query over every content type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := models.SearchOptions{
				Query:  processing.SanitizeSearchQuery(args[0]),
				Tags:   tags,
				Limit:  limit,
				Offset: offset,
			}
			if opts.Query == "" {
				return errors.New("query is empty after sanitizing")
			}
			for _, raw := range types {
				t, ok := models.ParseContentType(raw)
				if !ok {
					return fmt.Errorf("unknown content type %q", raw)
				}
				opts.Types = append(opts.Types, t)
			}

			index, err := search.Collect(cmd.Context(), loader.New(a.dir, a.log))
			if err != nil {
				if len(index) == 0 {
					return fmt.Errorf("search failed: %w", err)
				}
				a.log.Warn("search over partial index", "err", err)
			}

			resp := search.Search(index, opts)
			if asJSON {
				return printJSON(cmd, resp)
			}
			printResults(cmd, resp)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&types, "types", "t", nil, "content types to include")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags to require")
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "results to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

func printResults(cmd *cobra.Command, resp models.SearchResponse) {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		if len(resp.Suggestions) > 0 {
			cmd.Printf("Did you mean: %v\n", resp.Suggestions)
		}
		return
	}

	cmd.Printf("%d result(s) for %q\n\n", resp.Total, resp.Query)
	for i, r := range resp.Results {
		cmd.Printf("  [%d] %s (%s, %.1f)\n", i+1, r.Title, r.Type, r.RelevanceScore)
		cmd.Printf("      %s\n", r.URL)
		if len(r.Highlights) > 0 {
			cmd.Printf("      %s\n", r.Highlights[0])
		}
		cmd.Println()
	}
}
