package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docoutline/internal/testpdf"
)

func parsePDF(t *testing.T, data []byte) []fragmentView {
	t.Helper()
	p := &PDFParser{}
	frags, err := p.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views := make([]fragmentView, len(frags))
	for i, f := range frags {
		views[i] = fragmentView{f.Text, f.FontSize, f.Page, f.Top}
	}
	return views
}

type fragmentView struct {
	text string
	size float64
	page int
	top  float64
}

func TestPDFParser_LinesInReadingOrder(t *testing.T) {
	data := testpdf.Build(testpdf.Page{
		// Drawn out of order on purpose: output must be top to bottom.
		{Text: "1.1 Scope", Size: 14, X: 72, Y: 600},
		{Text: "Big Title", Size: 24, X: 72, Y: 700},
		{Text: "Chapter One", Size: 18, X: 72, Y: 650},
	})

	got := parsePDF(t, data)
	want := []fragmentView{
		{"Big Title", 24, 1, 68},
		{"Chapter One", 18, 1, 124},
		{"1.1 Scope", 14, 1, 178},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment[%d]: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestPDFParser_SameLineSortedAndAveraged(t *testing.T) {
	// Both runs share top = 792 - (Y + size) = 80.
	data := testpdf.Build(testpdf.Page{
		{Text: "cd", Size: 12, X: 200, Y: 700},
		{Text: "ab", Size: 10, X: 72, Y: 702},
	})

	got := parsePDF(t, data)
	if len(got) != 1 {
		t.Fatalf("expected 1 fragment, got %d: %+v", len(got), got)
	}
	if got[0].text != "abcd" {
		t.Errorf("expected text %q, got %q", "abcd", got[0].text)
	}
	if got[0].size != 11 {
		t.Errorf("expected mean size 11, got %v", got[0].size)
	}
}

func TestPDFParser_MeanSizeRoundedToTwoPlaces(t *testing.T) {
	// Three glyphs: 10, 10, 11 -> 10.333... -> 10.33.
	data := testpdf.Build(testpdf.Page{
		{Text: "ab", Size: 10, X: 72, Y: 702},
		{Text: "c", Size: 11, X: 300, Y: 701},
	})

	got := parsePDF(t, data)
	if len(got) != 1 {
		t.Fatalf("expected 1 fragment, got %d: %+v", len(got), got)
	}
	if got[0].size != 10.33 {
		t.Errorf("expected size 10.33, got %v", got[0].size)
	}
}

func TestPageLines_HalfValuesRoundToEven(t *testing.T) {
	// Seven 10pt glyphs and one 11pt glyph: mean 10.125. Every glyph sits at
	// top = 792 - (Y + size) = 100.25.
	var glyphs []pdflib.Text
	for i, s := range "abcdefg" {
		glyphs = append(glyphs, pdflib.Text{S: string(s), FontSize: 10, X: float64(72 + 6*i), Y: 681.75})
	}
	glyphs = append(glyphs, pdflib.Text{S: "h", FontSize: 11, X: 114, Y: 680.75})

	frags := pageLines(glyphs, 792, 1)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d: %+v", len(frags), frags)
	}
	if frags[0].Text != "abcdefgh" {
		t.Errorf("expected text %q, got %q", "abcdefgh", frags[0].Text)
	}
	if frags[0].FontSize != 10.12 {
		t.Errorf("expected size 10.12, got %v", frags[0].FontSize)
	}
	if frags[0].Top != 100.2 {
		t.Errorf("expected top 100.2, got %v", frags[0].Top)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{10.125, 2, 10.12},
		{10.375, 2, 10.38},
		{100.25, 1, 100.2},
		{100.75, 1, 100.8},
		{10.333, 2, 10.33},
		{68, 1, 68},
	}
	for _, tt := range tests {
		if got := round(tt.v, tt.places); got != tt.want {
			t.Errorf("round(%v, %d): expected %v, got %v", tt.v, tt.places, tt.want, got)
		}
	}
}

func TestPDFParser_PageNumbering(t *testing.T) {
	data := testpdf.Build(
		testpdf.Page{{Text: "First page", Size: 12, X: 72, Y: 700}},
		testpdf.Page{},
		testpdf.Page{{Text: "Third page", Size: 12, X: 72, Y: 700}},
	)

	got := parsePDF(t, data)
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %d: %+v", len(got), got)
	}
	if got[0].page != 1 {
		t.Errorf("expected page 1, got %d", got[0].page)
	}
	if got[1].page != 3 {
		t.Errorf("expected empty page to keep numbering (page 3), got %d", got[1].page)
	}
}

func TestPDFParser_WhitespaceLinesDropped(t *testing.T) {
	data := testpdf.Build(testpdf.Page{
		{Text: "   ", Size: 30, X: 72, Y: 750},
		{Text: "  Padded  ", Size: 12, X: 72, Y: 700},
	})

	got := parsePDF(t, data)
	if len(got) != 1 {
		t.Fatalf("expected 1 fragment, got %d: %+v", len(got), got)
	}
	if got[0].text != "Padded" {
		t.Errorf("expected trimmed text %q, got %q", "Padded", got[0].text)
	}
}

func TestPDFParser_CorruptInput(t *testing.T) {
	inputs := map[string][]byte{
		"garbage":   []byte("this is not a pdf at all"),
		"truncated": testpdf.Build(testpdf.Page{{Text: "x", Size: 12, X: 72, Y: 700}})[:120],
		"empty":     {},
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			p := &PDFParser{}
			frags, err := p.Parse(bytes.NewReader(data), int64(len(data)))
			if err == nil {
				t.Fatalf("expected error, got %d fragments", len(frags))
			}
			if len(frags) != 0 {
				t.Errorf("expected no fragments on error, got %d", len(frags))
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	data := testpdf.Build(testpdf.Page{{Text: "Hello World", Size: 12, X: 72, Y: 700}})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	frags, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 1 || frags[0].Text != "Hello World" {
		t.Errorf("expected one %q fragment, got %+v", "Hello World", frags)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.pdf", false},
		{"A.PDF", false},
		{"b.docx", false},
		{"c.txt", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ForFile(%q): expected ErrUnsupportedFormat, got %v", tt.filename, err)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q) disagrees with ForFile", tt.filename)
		}
	}
}
