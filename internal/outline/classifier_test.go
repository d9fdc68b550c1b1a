package outline

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func frag(text string, size float64, page int) doctree.Fragment {
	return doctree.Fragment{Text: text, FontSize: size, Page: page}
}

func TestClassify_TitleAndHeadings(t *testing.T) {
	doc := Classify([]doctree.Fragment{
		frag("Big Title", 24, 1),
		frag("Chapter One", 18, 1),
		frag("1.1 Scope", 14, 2),
	})

	assert.Equal(t, "Big Title", doc.Title)
	assert.Equal(t, []doctree.Heading{
		{Level: doctree.LevelH1, Text: "Chapter One", Page: 1},
		{Level: doctree.LevelH2, Text: "1.1 Scope", Page: 2},
	}, doc.Outline)
}

func TestClassify_EmptyInput(t *testing.T) {
	for name, frags := range map[string][]doctree.Fragment{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			doc := Classify(frags)
			assert.Equal(t, UntitledDocument, doc.Title)
			assert.NotNil(t, doc.Outline)
			assert.Empty(t, doc.Outline)
		})
	}
}

func TestClassify_AllLinesTooLong(t *testing.T) {
	long := strings.Repeat("a", 100)
	doc := Classify([]doctree.Fragment{frag(long, 30, 1), frag(long, 12, 1)})

	assert.Equal(t, UntitledDocument, doc.Title)
	assert.Empty(t, doc.Outline)
}

func TestClassify_CandidateLengthBoundary(t *testing.T) {
	// 99 runes is a candidate, 100 is not.
	short := strings.Repeat("é", 99)
	long := strings.Repeat("é", 100)
	doc := Classify([]doctree.Fragment{frag(long, 30, 1), frag(short, 20, 1)})

	assert.Equal(t, short, doc.Title)
}

func TestClassify_FirstTitleWins(t *testing.T) {
	doc := Classify([]doctree.Fragment{
		frag("Main Title", 24, 1),
		frag("Section", 18, 1),
		frag("Repeated Title", 24, 2),
	})

	assert.Equal(t, "Main Title", doc.Title)
	require.Len(t, doc.Outline, 1)
	assert.Equal(t, "Section", doc.Outline[0].Text)
}

func TestClassify_H1ValidationFilters(t *testing.T) {
	doc := Classify([]doctree.Fragment{
		frag("Title", 24, 1),
		frag("123", 18, 1),
		frag("ab", 18, 1),
		frag("1.2 Initial draft 2023", 18, 1),
		frag("Introduction", 18, 2),
	})

	require.Len(t, doc.Outline, 1)
	assert.Equal(t, doctree.Heading{Level: doctree.LevelH1, Text: "Introduction", Page: 2}, doc.Outline[0])
}

func TestClassify_TitleBypassesValidation(t *testing.T) {
	doc := Classify([]doctree.Fragment{frag("42", 12, 3)})

	assert.Equal(t, "42", doc.Title)
	assert.Empty(t, doc.Outline)
}

func TestClassify_H4AndSmallerDropped(t *testing.T) {
	doc := Classify([]doctree.Fragment{
		frag("Title", 30, 1),
		frag("Level One", 24, 1),
		frag("Level Two", 20, 1),
		frag("Level Three", 16, 1),
		frag("Level Four", 14, 1),
		frag("Body text line", 11, 1),
	})

	levels := make([]doctree.Level, len(doc.Outline))
	for i, h := range doc.Outline {
		levels[i] = h.Level
	}
	assert.Equal(t, []doctree.Level{doctree.LevelH1, doctree.LevelH2, doctree.LevelH3}, levels)
}

func TestClassify_OutlineKeepsEncounterOrder(t *testing.T) {
	doc := Classify([]doctree.Fragment{
		frag("Title", 24, 1),
		frag("Details", 14, 1),
		frag("Overview", 18, 2),
		frag("More Details", 14, 3),
	})

	var texts []string
	for _, h := range doc.Outline {
		texts = append(texts, h.Text)
	}
	assert.Equal(t, []string{"Details", "Overview", "More Details"}, texts)
}

func TestClassify_Deterministic(t *testing.T) {
	frags := []doctree.Fragment{
		frag("Title", 24, 1),
		frag("Alpha", 18, 1),
		frag("Beta", 16, 1),
		frag("Gamma", 14, 2),
		frag("Delta", 12, 2),
		frag("Epsilon", 10, 3),
	}
	want := Classify(frags)

	var wg sync.WaitGroup
	c := NewClassifier(Config{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Classify(frags))
		}()
	}
	wg.Wait()
}

func TestClassify_TitleFallback(t *testing.T) {
	// No line is short enough to be a candidate, so the title comes from
	// the first-page heuristics only when enabled.
	frags := []doctree.Fragment{
		frag(strings.Repeat("x", 120), 12, 1),
		frag("Annual Report Summary", 12, 1),
	}
	c := NewClassifier(Config{MaxCandidateLength: 10, TitleFallback: true})
	doc := c.Classify(frags)
	assert.Equal(t, "Annual Report Summary", doc.Title)

	doc = NewClassifier(Config{MaxCandidateLength: 10}).Classify(frags)
	assert.Equal(t, UntitledDocument, doc.Title)
}

func TestBuildFontLevelMap(t *testing.T) {
	m := BuildFontLevelMap([]doctree.Fragment{
		frag("a", 10, 1), frag("b", 10, 1), frag("c", 12, 1),
		frag("d", 14, 1), frag("e", 16, 1), frag("f", 18, 1),
		frag("g", 20, 1),
	})

	assert.Equal(t, 5, m.Len())
	assert.Equal(t, doctree.LevelTitle, m.Level(20))
	assert.Equal(t, doctree.LevelH1, m.Level(18))
	assert.Equal(t, doctree.LevelH2, m.Level(16))
	assert.Equal(t, doctree.LevelH3, m.Level(14))
	assert.Equal(t, doctree.LevelH4, m.Level(12))
	assert.Equal(t, doctree.LevelNone, m.Level(10))

	ranked := m.Ranked()
	require.Len(t, ranked, 5)
	assert.Equal(t, SizeCount{Size: 20, Count: 1}, ranked[0])
}
