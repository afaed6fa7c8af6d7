package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
	"github.com/rcliao/gafaws/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edges",
		Short: "Show affix adjacency evidence",
		Long:  "Show which affixes were observed next to each other, in surface order, with counts.",
		Run:   runEdges,
	}

	cmd.Flags().StringP("name", "n", "", "Corpus name (required)")
	cmd.Flags().Int("version", 0, "Specific version number")
	cmd.Flags().StringP("category", "c", "", "Only prefix or suffix edges")
	cmd.Flags().StringP("morpheme", "m", "", "Only edges touching this morpheme")

	cmd.MarkFlagRequired("name")

	RootCmd.AddCommand(cmd)
}

func runEdges(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	version, _ := cmd.Flags().GetInt("version")
	category, _ := cmd.Flags().GetString("category")
	morpheme, _ := cmd.Flags().GetString("morpheme")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	edges, err := s.Edges(cmd.Context(), store.EdgeParams{
		Name:     name,
		Version:  version,
		Category: model.Category(category),
		Morpheme: morpheme,
	})
	if err != nil {
		exitErr("edges", err)
	}

	if outputFormat() == "text" {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tFROM\tTO\tCOUNT")
		for _, e := range edges {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.Category, e.From, e.To, e.Count)
		}
		tw.Flush()
		return
	}
	if edges == nil {
		edges = []position.Edge{}
	}
	printJSON(cmd, edges)
}
