package outline

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// FontLevelMap assigns hierarchy labels to the largest font sizes of one
// document. It is built per document and never shared.
type FontLevelMap struct {
	levels map[float64]doctree.Level
	ranked []SizeCount
}

// SizeCount is a distinct font size and how many candidates use it.
type SizeCount struct {
	Size  float64 `json:"size"`
	Count int     `json:"count"`
}

// BuildFontLevelMap ranks the candidate sizes by (size desc, count desc) and
// labels the top len(doctree.Levels) of them Title, H1, H2, H3, H4.
func BuildFontLevelMap(candidates []doctree.Fragment) *FontLevelMap {
	counts := make(map[float64]int)
	for _, f := range candidates {
		counts[f.FontSize]++
	}

	ranked := make([]SizeCount, 0, len(counts))
	for size, n := range counts {
		ranked = append(ranked, SizeCount{Size: size, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Size != ranked[j].Size {
			return ranked[i].Size > ranked[j].Size
		}
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > len(doctree.Levels) {
		ranked = ranked[:len(doctree.Levels)]
	}

	m := &FontLevelMap{
		levels: make(map[float64]doctree.Level, len(ranked)),
		ranked: ranked,
	}
	for i, sc := range ranked {
		m.levels[sc.Size] = doctree.Levels[i]
	}
	return m
}

// Level returns the label for a size, or doctree.LevelNone when unmapped.
func (m *FontLevelMap) Level(size float64) doctree.Level {
	return m.levels[size]
}

// Ranked returns the mapped sizes in label order.
func (m *FontLevelMap) Ranked() []SizeCount {
	out := make([]SizeCount, len(m.ranked))
	copy(out, m.ranked)
	return out
}

// Len is the number of mapped sizes.
func (m *FontLevelMap) Len() int {
	return len(m.ranked)
}
