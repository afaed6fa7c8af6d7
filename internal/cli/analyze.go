package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/gafaws/internal/corpusxml"
	"github.com/rcliao/gafaws/internal/position"
	"github.com/rcliao/gafaws/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Assign position classes to a corpus",
		Long: "Analyze a stored corpus (--name) and save the result as a new version, " +
			"or analyze a file (--file) without touching the database.",
		Run: runAnalyze,
	}

	cmd.Flags().StringP("name", "n", "", "Stored corpus name")
	cmd.Flags().Int("version", 0, "Version to analyze (default: latest)")
	cmd.Flags().String("file", "", "Corpus file to analyze instead of a stored corpus")
	cmd.Flags().String("kind", "", "Input kind for --file: xml or wordlist")
	cmd.Flags().StringP("out", "o", "", "Write the analyzed corpus as XML to this path (file mode)")

	cmd.MarkFlagsMutuallyExclusive("name", "file")
	cmd.MarkFlagsOneRequired("name", "file")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	file, _ := cmd.Flags().GetString("file")

	if file != "" {
		analyzeFile(cmd, file)
		return
	}

	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, _, err := s.Load(cmd.Context(), name, version)
	if err != nil {
		exitErr("load", err)
	}

	if _, err := position.New(position.WithLogger(logger)).Analyze(c); err != nil {
		exitErr("analyze", err)
	}

	info, err := s.Put(cmd.Context(), store.PutParams{
		Name:   name,
		Source: "analyze",
		Corpus: c,
		Edges:  position.Edges(c),
	})
	if err != nil {
		exitErr("save", err)
	}

	if err := printReport(cmd.OutOrStdout(), buildReport(c, info, openCatalog()), outputFormat()); err != nil {
		exitErr("write output", err)
	}
}

func analyzeFile(cmd *cobra.Command, path string) {
	kind, _ := cmd.Flags().GetString("kind")
	out, _ := cmd.Flags().GetString("out")
	if kind == "" {
		kind = kindFromPath(path)
	}

	data, err := readInput(path)
	if err != nil {
		exitErr("read input", err)
	}
	c, err := parseCorpus(data, kind)
	if err != nil {
		exitErr("parse "+kind, err)
	}

	if _, err := position.New(position.WithLogger(logger)).Analyze(c); err != nil {
		exitErr("analyze", err)
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			exitErr("create output", err)
		}
		if err := corpusxml.Write(f, c); err != nil {
			f.Close()
			exitErr("write xml", err)
		}
		if err := f.Close(); err != nil {
			exitErr("write xml", err)
		}
		logger.Debug("wrote analyzed corpus", zap.String("path", out))
	}

	if err := printReport(cmd.OutOrStdout(), buildReport(c, nil, openCatalog()), outputFormat()); err != nil {
		exitErr("write output", err)
	}
}
