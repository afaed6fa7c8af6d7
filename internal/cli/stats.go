package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if outputFormat() != "text" {
		printJSON(cmd, stats)
		return
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "database   %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Fprintf(w, "versions   %s total, %s live\n", humanize.Comma(int64(stats.TotalVersions)), humanize.Comma(int64(stats.ActiveVersions)))
	fmt.Fprintf(w, "analyzed   %d latest\n", stats.AnalyzedLatest)
	fmt.Fprintf(w, "morphemes  %s\n", humanize.Comma(int64(stats.TotalMorphemes)))
	fmt.Fprintf(w, "challenges %d\n", stats.TotalChallenges)

	if len(stats.Corpora) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nNAME\tVERSIONS\tWORDS\tCLASSES")
	for _, c := range stats.Corpora {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", c.Name, c.Versions, humanize.Comma(int64(c.Words)), c.Classes)
	}
	tw.Flush()
}
