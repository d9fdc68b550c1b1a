package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Patterns use Unicode classes so digits and word characters match the same
// runes on every script.
var (
	allDigitsPattern     = regexp.MustCompile(`^\p{Nd}+$`)
	decimalYearPattern   = regexp.MustCompile(`^\p{Nd}+\.\p{Nd}+.*\p{Nd}{4}`)
	decimalMonthPattern  = regexp.MustCompile(`(?i)^\p{Nd}+\.\p{Nd}+.*\p{Nd}{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	revisionPhrase       = regexp.MustCompile(`(?i)(initial version|reviewed and confirmed|amended)`)
	digitsAndSymbolsOnly = regexp.MustCompile(`^(?:[\p{Nd}\s]|[^\p{L}\p{N}_])+$`)

	leadingNonWord  = regexp.MustCompile(`^[^\p{L}\p{N}_]*`)
	trailingNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s.]*$`)

	tocNumbersOnly = regexp.MustCompile(`^[\p{Nd}\s.]+$`)
	tocDotLeader   = regexp.MustCompile(`^\.+\s*\p{Nd}+$`)
)

// bodyTextPatterns flag lines that read like running text, metadata or
// footers rather than headings.
var bodyTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)version\s+\p{Nd}+`),
	regexp.MustCompile(`(?i)\p{Nd}{4}.*page\s+\p{Nd}+`),
	regexp.MustCompile(`(?i)\p{Nd}{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
	regexp.MustCompile(`\p{Nd}+\.\p{Nd}+.*\p{Nd}{4}`),
	regexp.MustCompile(`^[\p{Nd}\s.\-:]+$`),
	regexp.MustCompile(`^\p{Nd}+$`),
	regexp.MustCompile(`(?i)^page\s+\p{Nd}+`),
	regexp.MustCompile(`(?i)©.*copyright`),
	regexp.MustCompile(`(?i)www\.`),
	regexp.MustCompile(`@`),
	regexp.MustCompile(`(?i)^\p{Nd}+\.\p{Nd}+\s+\p{Nd}+\s+[\p{L}\p{N}_]+\s+\p{Nd}{4}`),
}

// IsValidHeadingSimple is the filter applied to H1-H3 candidates.
func IsValidHeadingSimple(text string) bool {
	return HasLetter(text) &&
		!IsTooShort(text) &&
		!IsAllDigits(text) &&
		!IsDecimalYearRow(text)
}

// HasLetter reports whether text contains at least one alphabetic rune.
func HasLetter(text string) bool {
	return strings.IndexFunc(text, unicode.IsLetter) >= 0
}

// IsTooShort reports whether text has fewer than 3 runes.
func IsTooShort(text string) bool {
	return utf8.RuneCountInString(text) < 3
}

// IsAllDigits reports whether text is a non-empty run of digits.
func IsAllDigits(text string) bool {
	return allDigitsPattern.MatchString(text)
}

// IsDecimalYearRow matches rows like "1.2 Initial draft 2023" that come from
// version and revision tables.
func IsDecimalYearRow(text string) bool {
	return decimalYearPattern.MatchString(text)
}

// IsValidHeading is the stricter validator used by the title heuristics.
func IsValidHeading(text string) bool {
	switch {
	case !HasLetter(text), IsTooShort(text):
		return false
	case digitsAndSymbolsOnly.MatchString(text):
		return false
	case IsDecimalYearRow(text), decimalMonthPattern.MatchString(text):
		return false
	case revisionPhrase.MatchString(text):
		return false
	}
	return letterCount(text) >= 3
}

// IsLikelyBodyText reports whether text reads like a sentence or a metadata
// line rather than a heading.
func IsLikelyBodyText(text string) bool {
	if strings.HasSuffix(text, ".") && utf8.RuneCountInString(text) > 30 {
		return true
	}
	if strings.Count(text, ".") > 1 {
		return true
	}
	if IsMostlyLowercase(text) {
		return true
	}
	for _, re := range bodyTextPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsMostlyLowercase reports whether more than 60% of the runes are lowercase.
func IsMostlyLowercase(text string) bool {
	var lower, total int
	for _, r := range text {
		total++
		if unicode.IsLower(r) {
			lower++
		}
	}
	return float64(lower) > float64(total)*0.6
}

// IsTOCArtifact matches page-number columns and dot leaders.
func IsTOCArtifact(text string) bool {
	return tocNumbersOnly.MatchString(text) || tocDotLeader.MatchString(text)
}

// CleanHeadingText collapses whitespace and strips decoration around the text.
func CleanHeadingText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = leadingNonWord.ReplaceAllString(text, "")
	text = trailingNonWord.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func letterCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
