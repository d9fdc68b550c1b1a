// Package render writes a classified document as JSON, Markdown or HTML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Format names an output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name, case-insensitively. "md" is an alias for
// markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Extension is the sidecar file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	}
	return ".json"
}

// ContentType is the HTTP media type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// Write renders doc to w in the given format.
func Write(w io.Writer, f Format, doc *doctree.Document) error {
	switch f {
	case FormatJSON, "":
		return JSON(w, doc)
	case FormatMarkdown:
		return Markdown(w, doc)
	case FormatHTML:
		return HTML(w, doc)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// JSON writes the sidecar document: two-space indent, non-ASCII and HTML
// characters kept as-is.
func JSON(w io.Writer, doc *doctree.Document) error {
	if doc.Outline == nil {
		doc = doctree.NewDocument(doc.Title, nil)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
