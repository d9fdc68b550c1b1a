package outline

import (
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Title lines must be strictly between these rune counts.
const (
	minTitleRunes = 5
	maxTitleRunes = 100
)

// TitleFromStructure picks a title from the first page when the font ranking
// produced none. It prefers a line within 2pt of the page's largest size that
// reads like a heading, then any of the first five page-1 lines of
// reasonable length.
func TitleFromStructure(frags []doctree.Fragment) string {
	first := firstPage(frags)
	if len(first) == 0 {
		return UntitledDocument
	}

	maxSize := first[0].FontSize
	for _, f := range first[1:] {
		if f.FontSize > maxSize {
			maxSize = f.FontSize
		}
	}

	for _, f := range first {
		if f.FontSize < maxSize-2 {
			continue
		}
		text := CleanHeadingText(f.Text)
		if titleSized(text) && !IsLikelyBodyText(text) && IsValidHeading(text) {
			return text
		}
	}

	for _, f := range head(first, 5) {
		if text := CleanHeadingText(f.Text); titleSized(text) {
			return text
		}
	}
	return UntitledDocument
}

// TitleFallback scans the first ten page-1 lines for one that is not body
// text and contains a letter.
func TitleFallback(frags []doctree.Fragment) string {
	for _, f := range head(firstPage(frags), 10) {
		text := CleanHeadingText(f.Text)
		if titleSized(text) && !IsLikelyBodyText(text) && HasLetter(text) {
			return text
		}
	}
	return UntitledDocument
}

func firstPage(frags []doctree.Fragment) []doctree.Fragment {
	var out []doctree.Fragment
	for _, f := range frags {
		if f.Page == 1 {
			out = append(out, f)
		}
	}
	return out
}

func head(frags []doctree.Fragment, n int) []doctree.Fragment {
	if len(frags) > n {
		return frags[:n]
	}
	return frags
}

func titleSized(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > minTitleRunes && n < maxTitleRunes
}
