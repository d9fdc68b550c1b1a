// Package testpdf assembles small, valid PDF files for tests: Helvetica text
// lines at chosen positions and sizes, one content stream per page.
package testpdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Line is one run of text drawn at baseline (X, Y) in points.
type Line struct {
	Text string
	Size float64
	X, Y float64
}

// Page is the list of lines drawn on one page.
type Page []Line

// Options controls document-level properties.
type Options struct {
	// Title is written to the Info dictionary when non-empty.
	Title string
	// Width and Height of every page's MediaBox (default 612x792).
	Width, Height float64
}

// Build returns a single-font PDF with the given pages.
func Build(pages ...Page) []byte {
	return BuildWithOptions(Options{}, pages...)
}

// BuildWithOptions is Build with document options.
func BuildWithOptions(opts Options, pages ...Page) []byte {
	if opts.Width <= 0 {
		opts.Width = 612
	}
	if opts.Height <= 0 {
		opts.Height = 792
	}

	// 1 catalog, 2 pages, 3 font, then a (page, content) pair per page, then info.
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	widths := make([]string, 95)
	for i := range widths {
		widths[i] = "600"
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths ["+strings.Join(widths, " ")+"] >>")

	for i, page := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			num(opts.Width), num(opts.Height), 5+2*i))
		stream := contentStream(page)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	infoRef := ""
	if opts.Title != "" {
		objects = append(objects, "<< /Title ("+escape(opts.Title)+") /Producer (testpdf) >>")
		infoRef = fmt.Sprintf(" /Info %d 0 R", len(objects))
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, infoRef, xrefOffset)

	return []byte(b.String())
}

func contentStream(page Page) string {
	var b strings.Builder
	for _, l := range page {
		fmt.Fprintf(&b, "BT\n/F1 %s Tf\n%s %s Td\n(%s) Tj\nET\n", num(l.Size), num(l.X), num(l.Y), escape(l.Text))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	return strings.ReplaceAll(s, ")", `\)`)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
