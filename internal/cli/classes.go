package cli

import (
	"github.com/rcliao/gafaws/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Show the position classes of a stored corpus",
		Run:   runClasses,
	}

	cmd.Flags().StringP("name", "n", "", "Corpus name (required)")
	cmd.Flags().Int("version", 0, "Specific version number")
	cmd.Flags().StringP("category", "c", "", "Only prefix or suffix classes")

	cmd.MarkFlagRequired("name")

	RootCmd.AddCommand(cmd)
}

func runClasses(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	version, _ := cmd.Flags().GetInt("version")
	category, _ := cmd.Flags().GetString("category")

	cat := model.Category(category)
	if cat != "" && !cat.IsAffix() {
		exitErr("classes", errBadCategory(category))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, _, err := s.Load(cmd.Context(), name, version)
	if err != nil {
		exitErr("classes", err)
	}

	r := buildReport(c, nil, openCatalog())
	switch cat {
	case model.Prefix:
		printJSON(cmd, r.PrefixClasses)
	case model.Suffix:
		printJSON(cmd, r.SuffixClasses)
	default:
		printJSON(cmd, map[string][]classReport{
			"prefix_classes": r.PrefixClasses,
			"suffix_classes": r.SuffixClasses,
		})
	}
}
