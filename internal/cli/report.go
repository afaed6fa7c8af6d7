package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rcliao/gafaws/internal/catalog"
	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/store"
)

type classReport struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Ordinal int      `json:"ordinal"`
	Fog     bool     `json:"fog,omitempty"`
	Starts  []string `json:"starts,omitempty"` // affixes whose start class this is
	Ends    []string `json:"ends,omitempty"`
}

type challengeReport struct {
	Category model.Category `json:"category"`
	Key      string         `json:"key"`
	Text     string         `json:"text"`
}

// report is the printable view of an analyzed corpus.
type report struct {
	Corpus        *store.CorpusInfo `json:"corpus,omitempty"`
	AnalyzedAt    *time.Time        `json:"analyzed_at,omitempty"`
	PrefixClasses []classReport     `json:"prefix_classes"`
	SuffixClasses []classReport     `json:"suffix_classes"`
	Challenges    []challengeReport `json:"challenges"`
}

func buildReport(c *model.Corpus, info *store.CorpusInfo, cat *catalog.Catalog) report {
	r := report{
		Corpus:        info,
		AnalyzedAt:    c.AnalyzedAt,
		PrefixClasses: classReports(c, model.Prefix, cat),
		SuffixClasses: classReports(c, model.Suffix, cat),
		Challenges:    []challengeReport{},
	}
	for _, ch := range c.Challenges {
		r.Challenges = append(r.Challenges, challengeReport{
			Category: ch.Category,
			Key:      ch.Message,
			Text:     cat.Text(ch.Message),
		})
	}
	return r
}

func classReports(c *model.Corpus, category model.Category, cat *catalog.Catalog) []classReport {
	classes := c.Classes(category)
	out := make([]classReport, 0, len(classes))
	index := make(map[string]int, len(classes))
	for i, cl := range classes {
		name := cl.Name
		if name == "" && cl.IsFog {
			name = cat.Text("class.fog_name")
		}
		out = append(out, classReport{ID: cl.ID, Name: name, Ordinal: cl.Ordinal, Fog: cl.IsFog})
		index[cl.ID] = i
	}
	for _, m := range c.ByCategory(category) {
		if i, ok := index[m.StartClass]; ok {
			out[i].Starts = append(out[i].Starts, m.ID)
		}
		if i, ok := index[m.EndClass]; ok {
			out[i].Ends = append(out[i].Ends, m.ID)
		}
	}
	return out
}

func (r report) writeText(w io.Writer) error {
	if r.Corpus != nil {
		fmt.Fprintf(w, "corpus %s v%d\n", r.Corpus.Name, r.Corpus.Version)
	}
	if r.AnalyzedAt != nil {
		fmt.Fprintf(w, "analyzed %s\n", r.AnalyzedAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "not analyzed")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCLASS\tNAME\tSTARTS\tENDS")
	for _, cl := range append(append([]classReport{}, r.PrefixClasses...), r.SuffixClasses...) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cl.ID, cl.Name, strings.Join(cl.Starts, " "), strings.Join(cl.Ends, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, ch := range r.Challenges {
		fmt.Fprintf(w, "challenge (%s): %s\n", ch.Category, ch.Text)
	}
	return nil
}

func printReport(w io.Writer, r report, format string) error {
	if format == "text" {
		return r.writeText(w)
	}
	return writeJSON(w, r)
}
