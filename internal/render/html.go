package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// HTML writes a standalone page: the Markdown rendering converted by goldmark
// and wrapped in a document with the title in <head>.
func HTML(w io.Writer, doc *doctree.Document) error {
	var md bytes.Buffer
	if err := Markdown(&md, doc); err != nil {
		return err
	}
	var fragment bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &fragment); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	body := element(atom.Body)
	nodes, err := html.ParseFragment(&fragment, body)
	if err != nil {
		return fmt.Errorf("parse html fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: doc.Title})

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}

	head := element(atom.Head)
	head.AppendChild(meta)
	head.AppendChild(title)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	page := &html.Node{Type: html.DocumentNode}
	page.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	page.AppendChild(root)

	if err := html.Render(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
