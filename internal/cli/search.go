package cli

import (
	"fmt"
	"strings"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search morphemes by keyword",
		Long:  "Search morpheme ids, forms, and glosses in the latest version of each corpus.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("name", "n", "", "Filter by corpus name")
	cmd.Flags().StringP("category", "c", "", "Filter by category: stem, prefix, suffix")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	if category != "" && !model.ValidCategories[model.Category(category)] {
		exitErr("search", errBadCategory(category))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Name:     name,
		Query:    query,
		Category: model.Category(category),
		Limit:    limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	printJSON(cmd, results)
}

func errBadCategory(c string) error {
	return fmt.Errorf("invalid category %q", c)
}
