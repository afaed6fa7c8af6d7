package cli

import (
	"fmt"

	"github.com/rcliao/gafaws/internal/corpusxml"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored corpora",
		Long: "Export every live corpus version as JSON (re-importable with import --kind json). " +
			"With --xml, write one corpus version as GAFAWS XML instead.",
		Run: runExport,
	}

	cmd.Flags().StringP("name", "n", "", "Filter by corpus name")
	cmd.Flags().Bool("xml", false, "Write a single corpus version as XML (requires --name)")
	cmd.Flags().Int("version", 0, "Version for --xml (default: latest)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	asXML, _ := cmd.Flags().GetBool("xml")
	version, _ := cmd.Flags().GetInt("version")

	if asXML && name == "" {
		exitErr("export", fmt.Errorf("--xml requires --name"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if asXML {
		c, _, err := s.Load(cmd.Context(), name, version)
		if err != nil {
			exitErr("export", err)
		}
		if err := corpusxml.Write(cmd.OutOrStdout(), c); err != nil {
			exitErr("write xml", err)
		}
		return
	}

	exports, err := s.ExportAll(cmd.Context(), name)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, exports)
}
