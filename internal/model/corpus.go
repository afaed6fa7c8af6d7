// Package model defines the corpus data types shared by the analyzer,
// the loaders and the store.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category tags a morpheme as stem, prefix or suffix.
type Category string

const (
	Stem   Category = "stem"
	Prefix Category = "prefix"
	Suffix Category = "suffix"
)

// ValidCategories are the allowed morpheme categories.
var ValidCategories = map[Category]bool{
	Stem:   true,
	Prefix: true,
	Suffix: true,
}

// IsAffix reports whether c is prefix or suffix.
func (c Category) IsAffix() bool {
	return c == Prefix || c == Suffix
}

// Morpheme is a uniquely identified unit of a corpus.
type Morpheme struct {
	ID         string   `json:"id"`
	Category   Category `json:"category"`
	Form       string   `json:"form,omitempty"`
	Gloss      string   `json:"gloss,omitempty"`
	StartClass string   `json:"start_class,omitempty"`
	EndClass   string   `json:"end_class,omitempty"`
}

// WordRecord is one segmented word. Prefixes and Suffixes are both ordered
// outward from the stem: index 0 is the affix adjacent to the stem.
type WordRecord struct {
	ID       string   `json:"id"`
	Prefixes []string `json:"prefixes,omitempty"`
	Stem     string   `json:"stem"`
	Suffixes []string `json:"suffixes,omitempty"`
}

// Affixes returns the outward-ordered affix refs of category c.
func (w WordRecord) Affixes(c Category) []string {
	switch c {
	case Prefix:
		return w.Prefixes
	case Suffix:
		return w.Suffixes
	}
	return nil
}

// Class is an inferred position class.
type Class struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Ordinal int    `json:"ordinal"`
	IsFog   bool   `json:"is_fog,omitempty"`
}

// Challenge is a diagnostic the analyzer could not resolve. Message is a
// catalog key, not display text.
type Challenge struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Corpus is the in-memory corpus plus analysis results.
type Corpus struct {
	Words         []WordRecord `json:"words"`
	Morphemes     []Morpheme   `json:"morphemes"`
	PrefixClasses []Class      `json:"prefix_classes,omitempty"`
	SuffixClasses []Class      `json:"suffix_classes,omitempty"`
	Challenges    []Challenge  `json:"challenges,omitempty"`
	AnalyzedAt    *time.Time   `json:"analyzed_at,omitempty"`
}

// Morpheme returns the morpheme with the given ID, or nil.
func (c *Corpus) Morpheme(id string) *Morpheme {
	for i := range c.Morphemes {
		if c.Morphemes[i].ID == id {
			return &c.Morphemes[i]
		}
	}
	return nil
}

// ByCategory returns pointers to the morphemes of category cat in corpus
// order.
func (c *Corpus) ByCategory(cat Category) []*Morpheme {
	var out []*Morpheme
	for i := range c.Morphemes {
		if c.Morphemes[i].Category == cat {
			out = append(out, &c.Morphemes[i])
		}
	}
	return out
}

// Classes returns the class table for an affix category.
func (c *Corpus) Classes(cat Category) []Class {
	switch cat {
	case Prefix:
		return c.PrefixClasses
	case Suffix:
		return c.SuffixClasses
	}
	return nil
}

// SetClasses replaces the class table for an affix category.
func (c *Corpus) SetClasses(cat Category, classes []Class) {
	switch cat {
	case Prefix:
		c.PrefixClasses = classes
	case Suffix:
		c.SuffixClasses = classes
	}
}

// Class looks up a class by ID in either table.
func (c *Corpus) Class(id string) *Class {
	for i := range c.PrefixClasses {
		if c.PrefixClasses[i].ID == id {
			return &c.PrefixClasses[i]
		}
	}
	for i := range c.SuffixClasses {
		if c.SuffixClasses[i].ID == id {
			return &c.SuffixClasses[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Corpus) Clone() *Corpus {
	out := &Corpus{
		Morphemes:     append([]Morpheme(nil), c.Morphemes...),
		PrefixClasses: append([]Class(nil), c.PrefixClasses...),
		SuffixClasses: append([]Class(nil), c.SuffixClasses...),
		Challenges:    append([]Challenge(nil), c.Challenges...),
	}
	out.Words = make([]WordRecord, len(c.Words))
	for i, w := range c.Words {
		out.Words[i] = WordRecord{
			ID:       w.ID,
			Prefixes: append([]string(nil), w.Prefixes...),
			Stem:     w.Stem,
			Suffixes: append([]string(nil), w.Suffixes...),
		}
	}
	if c.AnalyzedAt != nil {
		t := *c.AnalyzedAt
		out.AnalyzedAt = &t
	}
	return out
}

// ValidationError lists every structural problem found in a corpus.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid corpus: %s", strings.Join(e.Problems, "; "))
}

// Validate checks referential integrity. Loaders call it; the analyzer
// assumes a valid corpus.
func (c *Corpus) Validate() error {
	var problems []string
	cats := make(map[string]Category, len(c.Morphemes))
	for _, m := range c.Morphemes {
		if m.ID == "" {
			problems = append(problems, "morpheme with empty id")
			continue
		}
		if _, dup := cats[m.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate morpheme %q", m.ID))
		}
		if !ValidCategories[m.Category] {
			problems = append(problems, fmt.Sprintf("morpheme %q: invalid category %q", m.ID, m.Category))
		}
		cats[m.ID] = m.Category
	}

	for i, w := range c.Words {
		label := w.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if cat, ok := cats[w.Stem]; !ok {
			problems = append(problems, fmt.Sprintf("word %s: unknown stem %q", label, w.Stem))
		} else if cat != Stem {
			problems = append(problems, fmt.Sprintf("word %s: %q is not a stem", label, w.Stem))
		}
		seen := map[string]bool{}
		for _, want := range []Category{Prefix, Suffix} {
			for _, ref := range w.Affixes(want) {
				if seen[ref] {
					problems = append(problems, fmt.Sprintf("word %s: affix %q repeated", label, ref))
				}
				seen[ref] = true
				cat, ok := cats[ref]
				switch {
				case !ok:
					problems = append(problems, fmt.Sprintf("word %s: unknown %s %q", label, want, ref))
				case cat != want:
					problems = append(problems, fmt.Sprintf("word %s: %q is a %s, not a %s", label, ref, cat, want))
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
