// Package dates pulls a normalized reporting date out of filing text.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound indicates no reporting-date pattern matched the text.
var ErrNotFound = errors.New("dates: reporting date not found")

// patterns is an ordered list, most specific first. The first pattern that
// matches anywhere in the text wins and the search stops; later patterns are
// the looser conformed-period and bare 8-digit fallbacks.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)for\s+the\s+fiscal\s+year\s+ended\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`),
	regexp.MustCompile(`(?i)fiscal\s+year\s+(?:ended|ending)\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`),
	regexp.MustCompile(`(?i)for\s+the\s+year\s+(?:ended|ending)\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`),
	regexp.MustCompile(`(?i)year\s+ended\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`),
	regexp.MustCompile(`(?i)period\s+of\s+report\s*([A-Za-z]+\s+\d{1,2},\s*\d{4})`),
	regexp.MustCompile(`(?i)conformed\s+period\s+of\s+report[:\s]*([0-9]{8})`),
	regexp.MustCompile(`(?i)for\s+the\s+fiscal\s+year\s+ended\s*([0-9]{8})`),
	regexp.MustCompile(`(?i)for\s+the\s+year\s+ended\s*([0-9]{8})`),
}

// textualLayouts are tried in order against a textual capture; the first one
// that parses wins. Go's parser rejects out-of-range days (February 30),
// which discards the capture rather than forcing it.
var textualLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Normalize scans whitespace-collapsed document text for the reporting date
// and returns it as "m/d/yyyy" with no zero padding. Pure function; returns
// ErrNotFound when no pattern yields a parseable date.
func Normalize(text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	for _, pat := range patterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		capture := strings.TrimSpace(m[1])

		if len(capture) == 8 && isDigits(capture) {
			t, err := time.Parse("20060102", capture)
			if err != nil {
				continue
			}
			return format(t), nil
		}

		for _, layout := range textualLayouts {
			t, err := time.Parse(layout, capture)
			if err != nil {
				continue
			}
			return format(t), nil
		}
	}
	return "", ErrNotFound
}

func format(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
