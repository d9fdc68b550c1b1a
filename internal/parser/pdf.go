package parser

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// defaultPageHeight is used when a page carries no usable MediaBox (US Letter).
const defaultPageHeight = 792.0

// PDFParser groups the glyphs of each page into visual lines.
type PDFParser struct{}

// Parse returns one fragment per distinct rounded top coordinate, pages in
// order and lines top to bottom. Malformed documents surface as errors.
func (p *PDFParser) Parse(r io.ReaderAt, size int64) (frags []doctree.Fragment, err error) {
	// ledongthuc/pdf reports many malformed-stream conditions by panicking.
	defer func() {
		if rec := recover(); rec != nil {
			frags = nil
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		frags = append(frags, pageLines(page.Content().Text, pageHeight(page), i)...)
	}
	return frags, nil
}

// pageLines builds the fragments of a single page from its glyphs.
func pageLines(glyphs []pdflib.Text, height float64, pageNum int) []doctree.Fragment {
	linesByTop := make(map[float64][]pdflib.Text)
	for _, g := range glyphs {
		top := round(height-(g.Y+g.FontSize), 1)
		linesByTop[top] = append(linesByTop[top], g)
	}

	tops := make([]float64, 0, len(linesByTop))
	for top := range linesByTop {
		tops = append(tops, top)
	}
	sort.Float64s(tops)

	var frags []doctree.Fragment
	for _, top := range tops {
		line := linesByTop[top]
		sort.SliceStable(line, func(a, b int) bool { return line[a].X < line[b].X })

		var text strings.Builder
		var sizeSum float64
		for _, g := range line {
			text.WriteString(g.S)
			sizeSum += g.FontSize
		}

		trimmed := strings.TrimSpace(text.String())
		if trimmed == "" {
			continue
		}
		frags = append(frags, doctree.Fragment{
			Text:     trimmed,
			FontSize: round(sizeSum/float64(len(line)), 2),
			Page:     pageNum,
			Top:      top,
		})
	}
	return frags
}

// pageHeight reads the MediaBox height, following inherited attributes.
func pageHeight(page pdflib.Page) float64 {
	v := page.V
	for depth := 0; depth < 32 && v.Kind() == pdflib.Dict; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// round rounds half to even, so 10.125 becomes 10.12.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}
