package render

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// markdownEscaper backslash-escapes the punctuation that would otherwise be
// read as Markdown or raw HTML.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// leadingMarker matches text that would start a nested list item.
var leadingMarker = regexp.MustCompile(`^(\p{Nd}+)([.)])(\s|$)|^([-+])(\s|$)`)

func escapeMarkdown(text string) string {
	text = markdownEscaper.Replace(text)
	if m := leadingMarker.FindStringSubmatchIndex(text); m != nil {
		at := m[4]
		if at < 0 {
			at = m[8]
		}
		text = text[:at] + `\` + text[at:]
	}
	return text
}

// Markdown writes the title as a level-one heading followed by the outline as
// a nested list, one entry per heading with its page.
func Markdown(w io.Writer, doc *doctree.Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", escapeMarkdown(doc.Title))

	tree := doc.Tree()
	if len(tree.Children) > 0 {
		bw.WriteString("\n")
	}
	tree.Walk(func(n *doctree.DocNode, depth int) {
		fmt.Fprintf(bw, "%s- %s (p. %d)\n",
			strings.Repeat("  ", depth), escapeMarkdown(n.Title), n.Page)
	})
	return bw.Flush()
}
