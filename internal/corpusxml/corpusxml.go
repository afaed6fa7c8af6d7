// Package corpusxml reads and writes corpora in the GAFAWS XML layout:
//
//	<GAFAWSData analyzed="...">
//	  <WordRecords>
//	    <WordRecord WRID="W1">
//	      <Prefixes><Affix MIDREF="un-"/></Prefixes>
//	      <Stem MIDREF="do"/>
//	      <Suffixes><Affix MIDREF="-s"/></Suffixes>
//	    </WordRecord>
//	  </WordRecords>
//	  <Morphemes>
//	    <Morpheme MID="un-" type="pfx" StartCLIDREF="PP1" EndCLIDREF="PP1"/>
//	  </Morphemes>
//	  <Classes>
//	    <PrefixClasses><Class CLID="PP1" ordinal="1" isFogBank="0"/></PrefixClasses>
//	    <SuffixClasses/>
//	  </Classes>
//	  <Challenges><Challenge category="prefix" message="..."/></Challenges>
//	</GAFAWSData>
//
// Affix lists are ordered outward from the stem.
package corpusxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/rcliao/gafaws/internal/model"
)

var (
	rootExpr      = xpath.MustCompile("/GAFAWSData")
	wordExpr      = xpath.MustCompile("WordRecords/WordRecord")
	prefixExpr    = xpath.MustCompile("Prefixes/Affix")
	stemExpr      = xpath.MustCompile("Stem")
	suffixExpr    = xpath.MustCompile("Suffixes/Affix")
	morphemeExpr  = xpath.MustCompile("Morphemes/Morpheme")
	prefixClsExpr = xpath.MustCompile("Classes/PrefixClasses/Class")
	suffixClsExpr = xpath.MustCompile("Classes/SuffixClasses/Class")
	challengeExpr = xpath.MustCompile("Challenges/Challenge")
)

var typeToCategory = map[string]model.Category{
	"s":   model.Stem,
	"pfx": model.Prefix,
	"sfx": model.Suffix,
}

var categoryToType = map[model.Category]string{
	model.Stem:   "s",
	model.Prefix: "pfx",
	model.Suffix: "sfx",
}

// Read parses a GAFAWS XML document and validates the resulting corpus.
func Read(r io.Reader) (*model.Corpus, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := xmlquery.QuerySelector(doc, rootExpr)
	if root == nil {
		return nil, fmt.Errorf("parse xml: missing GAFAWSData root element")
	}

	c := &model.Corpus{}

	for _, n := range xmlquery.QuerySelectorAll(root, morphemeExpr) {
		typ := n.SelectAttr("type")
		cat, ok := typeToCategory[typ]
		if !ok {
			return nil, fmt.Errorf("morpheme %q: unknown type %q", n.SelectAttr("MID"), typ)
		}
		c.Morphemes = append(c.Morphemes, model.Morpheme{
			ID:         n.SelectAttr("MID"),
			Category:   cat,
			Form:       n.SelectAttr("form"),
			Gloss:      n.SelectAttr("gloss"),
			StartClass: n.SelectAttr("StartCLIDREF"),
			EndClass:   n.SelectAttr("EndCLIDREF"),
		})
	}

	for _, n := range xmlquery.QuerySelectorAll(root, wordExpr) {
		w := model.WordRecord{ID: n.SelectAttr("WRID")}
		if s := xmlquery.QuerySelector(n, stemExpr); s != nil {
			w.Stem = s.SelectAttr("MIDREF")
		}
		for _, a := range xmlquery.QuerySelectorAll(n, prefixExpr) {
			w.Prefixes = append(w.Prefixes, a.SelectAttr("MIDREF"))
		}
		for _, a := range xmlquery.QuerySelectorAll(n, suffixExpr) {
			w.Suffixes = append(w.Suffixes, a.SelectAttr("MIDREF"))
		}
		c.Words = append(c.Words, w)
	}

	if c.PrefixClasses, err = readClasses(root, prefixClsExpr); err != nil {
		return nil, err
	}
	if c.SuffixClasses, err = readClasses(root, suffixClsExpr); err != nil {
		return nil, err
	}

	for _, n := range xmlquery.QuerySelectorAll(root, challengeExpr) {
		c.Challenges = append(c.Challenges, model.Challenge{
			Category: model.Category(n.SelectAttr("category")),
			Message:  n.SelectAttr("message"),
		})
	}

	if v := root.SelectAttr("analyzed"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("parse analyzed stamp: %w", err)
		}
		c.AnalyzedAt = &t
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readClasses(root *xmlquery.Node, expr *xpath.Expr) ([]model.Class, error) {
	var out []model.Class
	for _, n := range xmlquery.QuerySelectorAll(root, expr) {
		cl := model.Class{
			ID:    n.SelectAttr("CLID"),
			Name:  n.SelectAttr("name"),
			IsFog: n.SelectAttr("isFogBank") == "1",
		}
		if v := n.SelectAttr("ordinal"); v != "" {
			ord, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("class %q: bad ordinal %q", cl.ID, v)
			}
			cl.Ordinal = ord
		}
		out = append(out, cl)
	}
	return out, nil
}

type xmlData struct {
	XMLName    xml.Name       `xml:"GAFAWSData"`
	Analyzed   string         `xml:"analyzed,attr,omitempty"`
	Words      []xmlWord      `xml:"WordRecords>WordRecord"`
	Morphemes  []xmlMorpheme  `xml:"Morphemes>Morpheme"`
	Classes    xmlClasses     `xml:"Classes"`
	Challenges []xmlChallenge `xml:"Challenges>Challenge"`
}

type xmlRef struct {
	MIDRef string `xml:"MIDREF,attr"`
}

type xmlWord struct {
	WRID     string   `xml:"WRID,attr,omitempty"`
	Prefixes []xmlRef `xml:"Prefixes>Affix"`
	Stem     xmlRef   `xml:"Stem"`
	Suffixes []xmlRef `xml:"Suffixes>Affix"`
}

type xmlMorpheme struct {
	MID      string `xml:"MID,attr"`
	Type     string `xml:"type,attr"`
	Form     string `xml:"form,attr,omitempty"`
	Gloss    string `xml:"gloss,attr,omitempty"`
	StartRef string `xml:"StartCLIDREF,attr,omitempty"`
	EndRef   string `xml:"EndCLIDREF,attr,omitempty"`
}

type xmlClasses struct {
	Prefix []xmlClass `xml:"PrefixClasses>Class"`
	Suffix []xmlClass `xml:"SuffixClasses>Class"`
}

type xmlClass struct {
	CLID    string `xml:"CLID,attr"`
	Name    string `xml:"name,attr,omitempty"`
	Ordinal int    `xml:"ordinal,attr"`
	IsFog   string `xml:"isFogBank,attr"`
}

type xmlChallenge struct {
	Category string `xml:"category,attr"`
	Message  string `xml:"message,attr"`
}

// Write serializes c as indented GAFAWS XML.
func Write(w io.Writer, c *model.Corpus) error {
	d := xmlData{}
	if c.AnalyzedAt != nil {
		d.Analyzed = c.AnalyzedAt.UTC().Format(time.RFC3339)
	}
	for _, wr := range c.Words {
		xw := xmlWord{WRID: wr.ID, Stem: xmlRef{MIDRef: wr.Stem}}
		for _, p := range wr.Prefixes {
			xw.Prefixes = append(xw.Prefixes, xmlRef{MIDRef: p})
		}
		for _, s := range wr.Suffixes {
			xw.Suffixes = append(xw.Suffixes, xmlRef{MIDRef: s})
		}
		d.Words = append(d.Words, xw)
	}
	for _, m := range c.Morphemes {
		d.Morphemes = append(d.Morphemes, xmlMorpheme{
			MID:      m.ID,
			Type:     categoryToType[m.Category],
			Form:     m.Form,
			Gloss:    m.Gloss,
			StartRef: m.StartClass,
			EndRef:   m.EndClass,
		})
	}
	d.Classes.Prefix = toXMLClasses(c.PrefixClasses)
	d.Classes.Suffix = toXMLClasses(c.SuffixClasses)
	for _, ch := range c.Challenges {
		d.Challenges = append(d.Challenges, xmlChallenge{Category: string(ch.Category), Message: ch.Message})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func toXMLClasses(classes []model.Class) []xmlClass {
	var out []xmlClass
	for _, cl := range classes {
		fog := "0"
		if cl.IsFog {
			fog = "1"
		}
		out = append(out, xmlClass{CLID: cl.ID, Name: cl.Name, Ordinal: cl.Ordinal, IsFog: fog})
	}
	return out
}
