// Package wordlist converts a plain segmented word list into a corpus.
//
// One word per line, morphemes separated by whitespace in surface order.
// A token ending in "-" is a prefix, a token starting with "-" is a suffix,
// and the single remaining token is the stem:
//
//	re- un- do -ing -s
//
// Blank lines and lines starting with "#" are skipped. An optional gloss
// follows a token after "=", e.g. "-s=PL".
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rcliao/gafaws/internal/model"
)

// Options configures parsing.
type Options struct {
	// MaxLineLen bounds a single line in bytes.
	MaxLineLen int
}

const DefaultMaxLineLen = 64 * 1024

// DefaultOptions returns default parsing options.
func DefaultOptions() Options {
	return Options{MaxLineLen: DefaultMaxLineLen}
}

// LineError reports a malformed line.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// token is one parsed morpheme occurrence.
type token struct {
	form  string
	gloss string
	cat   model.Category
}

// ID returns the morpheme ID for a category and form. Prefix and suffix
// forms stay distinct from an identically spelled stem.
func ID(cat model.Category, form string) string {
	switch cat {
	case model.Prefix:
		return form + "-"
	case model.Suffix:
		return "-" + form
	}
	return form
}

// Parse reads a word list and returns a corpus. Morphemes are listed in
// order of first occurrence; word records are numbered W1, W2, ...
func Parse(r io.Reader, opts Options) (*model.Corpus, error) {
	if opts.MaxLineLen == 0 {
		opts = DefaultOptions()
	}

	c := &model.Corpus{}
	index := map[string]int{}
	register := func(t token) string {
		id := ID(t.cat, t.form)
		if i, ok := index[id]; ok {
			if c.Morphemes[i].Gloss == "" {
				c.Morphemes[i].Gloss = t.gloss
			}
			return id
		}
		index[id] = len(c.Morphemes)
		c.Morphemes = append(c.Morphemes, model.Morpheme{
			ID:       id,
			Category: t.cat,
			Form:     t.form,
			Gloss:    t.gloss,
		})
		return id
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), opts.MaxLineLen)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		toks, err := splitLine(line)
		if err != nil {
			return nil, &LineError{Line: lineNum, Msg: err.Error()}
		}

		w := model.WordRecord{ID: fmt.Sprintf("W%d", len(c.Words)+1)}
		var surfacePrefixes []string
		for _, t := range toks {
			id := register(t)
			switch t.cat {
			case model.Prefix:
				surfacePrefixes = append(surfacePrefixes, id)
			case model.Suffix:
				w.Suffixes = append(w.Suffixes, id)
			default:
				w.Stem = id
			}
		}
		// Records list prefixes outward from the stem.
		for i := len(surfacePrefixes) - 1; i >= 0; i-- {
			w.Prefixes = append(w.Prefixes, surfacePrefixes[i])
		}
		c.Words = append(c.Words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// splitLine classifies the tokens of one line and checks their order:
// prefixes, then exactly one stem, then suffixes.
func splitLine(line string) ([]token, error) {
	fields := strings.Fields(line)
	toks := make([]token, 0, len(fields))
	stems := 0
	for _, f := range fields {
		raw, gloss, _ := strings.Cut(f, "=")
		t := token{gloss: gloss}
		switch {
		case raw == "-" || raw == "--":
			return nil, fmt.Errorf("empty affix %q", f)
		case strings.HasSuffix(raw, "-") && strings.HasPrefix(raw, "-"):
			return nil, fmt.Errorf("infix %q not supported", f)
		case strings.HasSuffix(raw, "-"):
			t.cat, t.form = model.Prefix, strings.TrimSuffix(raw, "-")
			if stems > 0 {
				return nil, fmt.Errorf("prefix %q after stem", f)
			}
		case strings.HasPrefix(raw, "-"):
			t.cat, t.form = model.Suffix, strings.TrimPrefix(raw, "-")
			if stems == 0 {
				return nil, fmt.Errorf("suffix %q before stem", f)
			}
		default:
			if raw == "" {
				return nil, fmt.Errorf("empty stem in %q", f)
			}
			t.cat, t.form = model.Stem, raw
			stems++
		}
		toks = append(toks, t)
	}
	if stems != 1 {
		return nil, fmt.Errorf("expected exactly one stem, found %d", stems)
	}
	return toks, nil
}
