package cli

import (
	"fmt"

	"github.com/rcliao/gafaws/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored corpora",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("analyzed", false, "Only corpora whose latest version is analyzed")
	cmd.Flags().Bool("names-only", false, "Only output corpus names")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	analyzed, _ := cmd.Flags().GetBool("analyzed")
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	infos, err := s.List(cmd.Context(), store.ListParams{
		Limit:    limit,
		Analyzed: analyzed,
	})
	if err != nil {
		exitErr("list", err)
	}

	if namesOnly {
		for _, in := range infos {
			fmt.Fprintln(cmd.OutOrStdout(), in.Name)
		}
		return
	}

	if outputFormat() == "text" {
		printInfos(cmd, infos)
		return
	}
	if infos == nil {
		infos = []store.CorpusInfo{}
	}
	printJSON(cmd, infos)
}
