package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// Nominal point sizes for paragraphs without explicit run sizes.
const (
	docxTitleSize = 28.0
	docxBodySize  = 11.0
)

var docxHeadingSizes = map[int]float64{1: 20, 2: 16, 3: 14, 4: 12, 5: 11.5, 6: 11.25}

// DOCXParser handles .docx files. DOCX has no fixed pagination, so every
// paragraph is reported on page 1 and ordered by paragraph index.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.ReaderAt, size int64) ([]doctree.Fragment, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var frags []doctree.Fragment
	index := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, sizes := docxParagraphRuns(para)
		if text == "" {
			continue
		}
		frags = append(frags, doctree.Fragment{
			Text:     text,
			FontSize: round(docxParagraphSize(para, sizes), 2),
			Page:     1,
			Top:      float64(index),
		})
		index++
	}
	return frags, nil
}

// docxParagraphSize averages explicit run sizes, falling back to the style.
func docxParagraphSize(para *docx.Paragraph, sizes []float64) float64 {
	if len(sizes) > 0 {
		var sum float64
		for _, s := range sizes {
			sum += s
		}
		return sum / float64(len(sizes))
	}
	if docxIsTitle(para) {
		return docxTitleSize
	}
	if s, ok := docxHeadingSizes[docxHeadingLevel(para)]; ok {
		return s
	}
	return docxBodySize
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxIsTitle(para *docx.Paragraph) bool {
	return strings.EqualFold(docxStyle(para), "Title")
}

func docxHeadingLevel(para *docx.Paragraph) int {
	style := strings.ToLower(strings.ReplaceAll(docxStyle(para), " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(style, "heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// docxParagraphRuns returns the trimmed paragraph text and the point size of
// every run that declares one.
func docxParagraphRuns(para *docx.Paragraph) (string, []float64) {
	var buf strings.Builder
	var sizes []float64
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
		if run.RunProperties != nil && run.RunProperties.Size != nil {
			if pt, ok := halfPoints(run.RunProperties.Size.Val); ok {
				sizes = append(sizes, pt)
			}
		}
	}
	return strings.TrimSpace(buf.String()), sizes
}

// halfPoints converts a w:sz value (half-points) to points.
func halfPoints(val string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n / 2, true
}
