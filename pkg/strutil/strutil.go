// Package strutil provides pure string helpers: ANSI stripping,
// whitespace normalization, URL/HTML encoding, and regex matching.
package strutil

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// StripANSI removes ANSI escape sequences (colors, cursor movement)
// from text.
func StripANSI(text string) string {
	return ansi.Strip(text)
}

// Clean trims leading and trailing whitespace and collapses interior
// runs of whitespace to a single space. Useful for rendering multi-line
// commands on one line.
func Clean(text string) string {
	return whitespaceRuns.ReplaceAllString(strings.TrimSpace(text), " ")
}

// EncodeURL percent-encodes text for use in a URL. Spaces become %20.
func EncodeURL(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DecodeURL reverses percent-encoding. Both %20 and + decode to a
// space.
func DecodeURL(text string) (string, error) {
	decoded, err := url.QueryUnescape(text)
	if err != nil {
		return "", fmt.Errorf("decode url: %w", err)
	}
	return decoded, nil
}

// EncodeHTML escapes the HTML special characters <, >, &, ' and ".
func EncodeHTML(text string) string {
	return html.EscapeString(text)
}

// DecodeHTML unescapes HTML entities, named and numeric.
func DecodeHTML(text string) string {
	return html.UnescapeString(text)
}

// Match reports whether pattern matches anywhere in text.
func Match(text, pattern string) (bool, error) {
	ok, err := regexp.MatchString(pattern, text)
	if err != nil {
		return false, fmt.Errorf("compile pattern: %w", err)
	}
	return ok, nil
}

// Capture returns all non-overlapping matches of pattern in text. When
// the pattern has capture groups the first group of each match is
// returned, otherwise the whole match.
func Capture(text, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 {
			out = append(out, m[1])
		} else {
			out = append(out, m[0])
		}
	}

	return out, nil
}
