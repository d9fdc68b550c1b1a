// Package outline turns a document's positioned text lines into a title and
// an H1-H3 outline using font-size ranking.
//
// The classifier assumes larger type means higher structure. The largest size
// among short lines becomes the title size, the next three become H1-H3, and
// the fifth is labelled H4 only so that it cannot be promoted.
package outline

import (
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// UntitledDocument is the title used when no title line is found.
const UntitledDocument = "Untitled Document"

// DefaultMaxCandidateLength is the rune length at which a line is treated as
// body text and never as a heading.
const DefaultMaxCandidateLength = 100

// Config controls classification.
type Config struct {
	// MaxCandidateLength excludes lines with this many runes or more.
	MaxCandidateLength int
	// TitleFallback enables the structural title heuristics when no
	// Title-sized line is found.
	TitleFallback bool
}

func (c *Config) defaults() {
	if c.MaxCandidateLength <= 0 {
		c.MaxCandidateLength = DefaultMaxCandidateLength
	}
}

// Classifier is stateless between calls and safe for concurrent use.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(cfg Config) *Classifier {
	cfg.defaults()
	return &Classifier{cfg: cfg}
}

// Classify uses the default configuration.
func Classify(frags []doctree.Fragment) *doctree.Document {
	return NewClassifier(Config{}).Classify(frags)
}

// Classify returns the document title and its outline in encounter order.
func (c *Classifier) Classify(frags []doctree.Fragment) *doctree.Document {
	if len(frags) == 0 {
		return doctree.NewDocument(UntitledDocument, nil)
	}

	candidates := c.Candidates(frags)
	if len(candidates) == 0 {
		return doctree.NewDocument(c.fallbackTitle(frags), nil)
	}

	levels := BuildFontLevelMap(candidates)

	title := ""
	outline := []doctree.Heading{}
	for _, f := range candidates {
		level := levels.Level(f.FontSize)
		if level == doctree.LevelNone {
			continue
		}

		if level == doctree.LevelTitle && title == "" {
			title = f.Text
			continue
		}
		if level.IsOutline() && IsValidHeadingSimple(f.Text) {
			outline = append(outline, doctree.Heading{
				Level: level,
				Text:  f.Text,
				Page:  f.Page,
			})
		}
	}

	if title == "" {
		title = c.fallbackTitle(frags)
	}
	return doctree.NewDocument(title, outline)
}

// Candidates keeps the fragments short enough to be headings, in order.
func (c *Classifier) Candidates(frags []doctree.Fragment) []doctree.Fragment {
	var out []doctree.Fragment
	for _, f := range frags {
		if utf8.RuneCountInString(f.Text) < c.cfg.MaxCandidateLength {
			out = append(out, f)
		}
	}
	return out
}

func (c *Classifier) fallbackTitle(frags []doctree.Fragment) string {
	if !c.cfg.TitleFallback {
		return UntitledDocument
	}
	if t := TitleFromStructure(frags); t != UntitledDocument {
		return t
	}
	return TitleFallback(frags)
}
