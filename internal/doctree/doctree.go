package doctree

import (
	"fmt"
	"strings"
)

// Fragment is one visual line of text on one page.
type Fragment struct {
	Text     string  // Trimmed line text
	FontSize float64 // Mean glyph size, rounded to 2 decimals
	Page     int     // 1-based page number
	Top      float64 // Rounded top coordinate, only used for ordering within a page
}

// Level is a hierarchy label assigned to a font size.
type Level int

const (
	LevelNone Level = iota
	LevelTitle
	LevelH1
	LevelH2
	LevelH3
	LevelH4
)

// Levels lists the labels in assignment order, largest font first.
var Levels = []Level{LevelTitle, LevelH1, LevelH2, LevelH3, LevelH4}

func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "Title"
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelH4:
		return "H4"
	default:
		return "None"
	}
}

// IsOutline reports whether headings of this level belong in the outline.
func (l Level) IsOutline() bool {
	return l == LevelH1 || l == LevelH2 || l == LevelH3
}

// Depth is the nesting depth of an outline level (H1=1), 0 otherwise.
func (l Level) Depth() int {
	if !l.IsOutline() {
		return 0
	}
	return int(l - LevelTitle)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.IsOutline() {
		return nil, fmt.Errorf("level %s is not an outline level", l)
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "H1":
		*l = LevelH1
	case "H2":
		*l = LevelH2
	case "H3":
		*l = LevelH3
	default:
		return fmt.Errorf("invalid outline level %q", string(b))
	}
	return nil
}

// Heading is one accepted outline entry.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Document is the per-input result written as the JSON sidecar.
type Document struct {
	Title   string    `json:"title"`
	Outline []Heading `json:"outline"`
}

// NewDocument returns a Document whose outline serializes as [] when empty.
func NewDocument(title string, outline []Heading) *Document {
	if outline == nil {
		outline = []Heading{}
	}
	return &Document{Title: title, Outline: outline}
}

// DocTree is the nested view of a Document.
type DocTree struct {
	Title    string     // Document title
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Heading text
	Level    Level      // Heading level
	Page     int        // Source page
	Children []*DocNode // Subsections
}

// Tree nests the flat outline by heading level. A heading attaches to the
// nearest preceding heading of a shallower level; skipped levels are allowed.
func (d *Document) Tree() *DocTree {
	tree := &DocTree{Title: d.Title}

	type stackEntry struct {
		node  *DocNode
		depth int
	}
	root := &DocNode{Title: d.Title}
	stack := []stackEntry{{node: root, depth: 0}}

	for _, h := range d.Outline {
		depth := h.Level.Depth()
		if depth == 0 {
			continue
		}
		node := &DocNode{Title: h.Text, Level: h.Level, Page: h.Page}
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, depth: depth})
	}

	tree.Children = root.Children
	return tree
}

// Walk visits every node depth-first in document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 0)
}

// FlattenText joins the fragment texts, one per line, for hashing.
func FlattenText(frags []Fragment) string {
	var sb strings.Builder
	for i, f := range frags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}
