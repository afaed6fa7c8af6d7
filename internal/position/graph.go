package position

import (
	"github.com/rcliao/gafaws/internal/model"
)

// Edge is one observed adjacency: From stood immediately left of To in
// Count word records.
type Edge struct {
	Category model.Category `json:"category"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Count    int            `json:"count"`
}

// surface returns a word's affixes of category c in left-to-right order.
func surface(w model.WordRecord, c model.Category) []string {
	refs := w.Affixes(c)
	if c != model.Prefix {
		return refs
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[len(refs)-1-i] = r
	}
	return out
}

// forEachPair calls fn for every adjacent surface pair of category c.
func forEachPair(c *model.Corpus, cat model.Category, fn func(left, right string)) {
	for _, w := range c.Words {
		refs := surface(w, cat)
		for k := 1; k < len(refs); k++ {
			if refs[k-1] != refs[k] {
				fn(refs[k-1], refs[k])
			}
		}
	}
}

// buildItems wraps every morpheme of category cat and wires the adjacency
// observed in the corpus. Items keep corpus order.
func buildItems(c *model.Corpus, cat model.Category) []*WorkItem {
	morphemes := c.ByCategory(cat)
	items := make([]*WorkItem, len(morphemes))
	index := make(map[string]int, len(morphemes))
	for i, m := range morphemes {
		items[i] = NewWorkItem(m)
		index[m.ID] = i
	}

	forEachPair(c, cat, func(left, right string) {
		l, lok := index[left]
		r, rok := index[right]
		if !lok || !rok {
			return
		}
		items[r].AddPredecessor(l)
		items[l].AddSuccessor(r)
	})
	return items
}

// Edges lists the adjacency evidence of a corpus, prefixes first, each
// pair in order of first occurrence.
func Edges(c *model.Corpus) []Edge {
	var edges []Edge
	for _, cat := range []model.Category{model.Prefix, model.Suffix} {
		pos := map[[2]string]int{}
		forEachPair(c, cat, func(left, right string) {
			key := [2]string{left, right}
			if i, ok := pos[key]; ok {
				edges[i].Count++
				return
			}
			pos[key] = len(edges)
			edges = append(edges, Edge{Category: cat, From: left, To: right, Count: 1})
		})
	}
	return edges
}
