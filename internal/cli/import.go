package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/gafaws/internal/corpusxml"
	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
	"github.com/rcliao/gafaws/internal/store"
	"github.com/rcliao/gafaws/internal/wordlist"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a corpus",
		Long: "Import a corpus from GAFAWS XML, a segmented word list, or a JSON export. " +
			"The kind is taken from the file extension unless --kind is given. Use - for stdin.",
		Args: cobra.ExactArgs(1),
		Run:  runImport,
	}

	cmd.Flags().StringP("name", "n", "", "Corpus name (default: file name without extension)")
	cmd.Flags().String("kind", "", "Input kind: xml, wordlist, or json")
	cmd.Flags().Bool("analyze", false, "Analyze before storing")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	path := args[0]
	name, _ := cmd.Flags().GetString("name")
	kind, _ := cmd.Flags().GetString("kind")
	analyze, _ := cmd.Flags().GetBool("analyze")

	if kind == "" {
		kind = kindFromPath(path)
	}

	data, err := readInput(path)
	if err != nil {
		exitErr("read input", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if kind == "json" {
		var exports []store.Export
		if err := json.Unmarshal(data, &exports); err != nil {
			exitErr("parse json", err)
		}
		imported, err := s.Import(cmd.Context(), exports)
		if err != nil {
			exitErr("import", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
		return
	}

	c, err := parseCorpus(data, kind)
	if err != nil {
		exitErr("parse "+kind, err)
	}

	if name == "" {
		if path == "-" {
			exitErr("import", fmt.Errorf("--name is required when reading stdin"))
		}
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if analyze {
		if _, err := position.New(position.WithLogger(logger)).Analyze(c); err != nil {
			exitErr("analyze", err)
		}
	}

	info, err := s.Put(cmd.Context(), store.PutParams{
		Name:   name,
		Source: path,
		Corpus: c,
		Edges:  position.Edges(c),
	})
	if err != nil {
		exitErr("import", err)
	}
	logger.Info("corpus imported",
		zap.String("name", info.Name),
		zap.Int("version", info.Version),
		zap.Int("words", info.Words),
	)

	if analyze {
		if err := printReport(cmd.OutOrStdout(), buildReport(c, info, openCatalog()), outputFormat()); err != nil {
			exitErr("write output", err)
		}
		return
	}
	printJSON(cmd, info)
}

func kindFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "xml"
	case ".json":
		return "json"
	default:
		return "wordlist"
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func parseCorpus(data []byte, kind string) (*model.Corpus, error) {
	switch kind {
	case "xml":
		return corpusxml.Read(bytes.NewReader(data))
	case "wordlist":
		return wordlist.Parse(bytes.NewReader(data), wordlist.DefaultOptions())
	default:
		return nil, fmt.Errorf("unsupported kind %q (want xml, wordlist, or json)", kind)
	}
}
