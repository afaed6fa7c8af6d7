package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/rcliao/gafaws/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Describe a stored corpus",
		Run:   runGet,
	}

	cmd.Flags().StringP("name", "n", "", "Corpus name (required)")
	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().Int("version", 0, "Specific version number")
	cmd.Flags().Bool("report", false, "Print the class report instead of version info")

	cmd.MarkFlagRequired("name")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")
	withReport, _ := cmd.Flags().GetBool("report")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if withReport {
		c, info, err := s.Load(cmd.Context(), name, version)
		if err != nil {
			exitErr("get", err)
		}
		if err := printReport(cmd.OutOrStdout(), buildReport(c, info, openCatalog()), outputFormat()); err != nil {
			exitErr("write output", err)
		}
		return
	}

	infos, err := s.Get(cmd.Context(), store.GetParams{
		Name:    name,
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("get", err)
	}

	if outputFormat() == "text" {
		printInfos(cmd, infos)
		return
	}
	if history || len(infos) > 1 {
		printJSON(cmd, infos)
	} else {
		printJSON(cmd, infos[0])
	}
}

func printInfos(cmd *cobra.Command, infos []store.CorpusInfo) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tWORDS\tMORPHEMES\tCLASSES\tCHALLENGES\tANALYZED")
	for _, in := range infos {
		analyzed := "-"
		if in.AnalyzedAt != nil {
			analyzed = in.AnalyzedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			in.Name, in.Version, in.Words, in.Morphemes, in.Classes, in.Challenges, analyzed)
	}
	tw.Flush()
}
