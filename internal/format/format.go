// Package format renders the raw string fields of the catalog for humans.
//
// The remote dataset stores most numbers as strings that are either numeric or a word such as "unknown". Every
// helper returns the raw input unchanged when it can't make sense of it.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Number groups the digits of an integer string, e.g. "200000" becomes "200,000".
func Number(raw string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return raw
	}
	return printer.Sprintf("%d", n)
}

// WithUnit formats a numeric measurement followed by unit. Non-numeric values are returned as is without the unit.
func WithUnit(raw, unit string) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
		return raw
	}
	return Number(raw) + " " + unit
}

// Credits formats a galactic credit cost as US dollars without fraction digits, e.g. "$3,500,000".
func Credits(raw string) string {
	if strings.EqualFold(raw, "unknown") {
		return "Unknown"
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return raw
	}
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// ReleaseDate formats an ISO date such as "1977-05-25" as "May 25, 1977".
func ReleaseDate(raw string) string {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return raw
	}
	return t.Format("January 2, 2006")
}

// Excerpt returns the first n runes of s followed by an ellipsis when s is longer than n.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Count formats the number of linked records with a noun, e.g. "3 films".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return printer.Sprintf("%d %s", n, plural)
}
