package corpusxml

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/gafaws/internal/model"
	"github.com/rcliao/gafaws/internal/position"
)

const sample = `<?xml version="1.0" encoding="utf-8"?>
<GAFAWSData>
  <WordRecords>
    <WordRecord WRID="W1">
      <Prefixes><Affix MIDREF="p1"/><Affix MIDREF="p2"/></Prefixes>
      <Stem MIDREF="root"/>
      <Suffixes><Affix MIDREF="s1"/></Suffixes>
    </WordRecord>
    <WordRecord WRID="W2">
      <Stem MIDREF="root"/>
    </WordRecord>
  </WordRecords>
  <Morphemes>
    <Morpheme MID="root" type="s" form="root"/>
    <Morpheme MID="p1" type="pfx" gloss="NEG"/>
    <Morpheme MID="p2" type="pfx"/>
    <Morpheme MID="s1" type="sfx"/>
  </Morphemes>
  <Classes><PrefixClasses/><SuffixClasses/></Classes>
</GAFAWSData>
`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, c.Words, 2)
	assert.Equal(t, []string{"p1", "p2"}, c.Words[0].Prefixes)
	assert.Equal(t, "root", c.Words[0].Stem)
	assert.Equal(t, []string{"s1"}, c.Words[0].Suffixes)
	assert.Empty(t, c.Words[1].Prefixes)

	require.Len(t, c.Morphemes, 4)
	assert.Equal(t, model.Prefix, c.Morpheme("p1").Category)
	assert.Equal(t, "NEG", c.Morpheme("p1").Gloss)
	assert.Nil(t, c.AnalyzedAt)
	assert.Empty(t, c.PrefixClasses)
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "<GAFAWSData"},
		{"wrong root", "<Other/>"},
		{"bad type", `<GAFAWSData><Morphemes><Morpheme MID="x" type="ifx"/></Morphemes></GAFAWSData>`},
		{"bad stamp", `<GAFAWSData analyzed="yesterday"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRead_DanglingReference(t *testing.T) {
	doc := strings.Replace(sample, `MIDREF="s1"`, `MIDREF="s9"`, 1)
	_, err := Read(strings.NewReader(doc))
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
}

func TestAnalyzedCorpusSurvivesRoundTrip(t *testing.T) {
	c, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	_, err = position.New(position.WithClock(func() time.Time { return stamp })).Analyze(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))
	assert.Contains(t, buf.String(), `<Class CLID="PP1" ordinal="1" isFogBank="0"></Class>`)

	got, err := Read(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
