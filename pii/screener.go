// Package pii screens free text for shapes of personal data before it is
// processed any further. Detection is pattern based and best effort: false
// positives are expected and some PII will always slip through.
package pii

import (
	"regexp"
	"sort"
	"strings"
)

// Placeholder replaces every redacted span.
const Placeholder = "[REDACTED]"

// Category labels a kind of personal data.
type Category string

const (
	CategoryEmail      Category = "email"
	CategoryPhone      Category = "phone"
	CategorySSN        Category = "ssn"
	CategoryCreditCard Category = "credit_card"
	CategoryZip        Category = "zip"
)

// Matcher pairs a category with the pattern that finds it.
type Matcher struct {
	Category Category
	Pattern  *regexp.Regexp
}

// Span is a region of text claimed by one category.
type Span struct {
	Category Category
	Start    int
	End      int
}

// DefaultMatchers returns the standard matcher list in application order.
// Order matters: when spans of two categories overlap, the earlier matcher wins.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{CategoryEmail, regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)},
		{CategoryPhone, regexp.MustCompile(`\b(?:\+?1[-.\s]?|0)?(?:\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}\b`)},
		{CategorySSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		{CategoryCreditCard, regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`)},
		{CategoryZip, regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)},
	}
}

// Screener detects and redacts personal data. The zero value has no matchers.
type Screener struct {
	matchers []Matcher
}

// New builds a screener applying matchers in the given order.
func New(matchers ...Matcher) *Screener {
	return &Screener{matchers: matchers}
}

// Default returns a screener with DefaultMatchers.
func Default() *Screener {
	return New(DefaultMatchers()...)
}

// Detect returns every category with at least one match, in matcher order.
// It is independent of Redact: overlapping spans still count for each category.
func (s *Screener) Detect(text string) []Category {
	var found []Category
	for _, m := range s.matchers {
		if m.Pattern.MatchString(text) {
			found = append(found, m.Category)
		}
	}
	return found
}

// Scan runs all matchers left to right and returns the spans each one claims,
// sorted by position. A match overlapping a span claimed by an earlier
// matcher is dropped entirely.
func (s *Screener) Scan(text string) []Span {
	var claimed []Span
	for _, m := range s.matchers {
		for _, loc := range m.Pattern.FindAllStringIndex(text, -1) {
			span := Span{Category: m.Category, Start: loc[0], End: loc[1]}
			if overlaps(claimed, span) {
				continue
			}
			claimed = append(claimed, span)
		}
	}
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].Start < claimed[j].Start })
	return claimed
}

// Redact replaces every claimed span with Placeholder.
func (s *Screener) Redact(text string) string {
	spans := s.Scan(text)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span.Start])
		b.WriteString(Placeholder)
		last = span.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func overlaps(claimed []Span, span Span) bool {
	for _, c := range claimed {
		if span.Start < c.End && c.Start < span.End {
			return true
		}
	}
	return false
}

// Labels converts categories to plain strings, e.g. for display.
func Labels(categories []Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
