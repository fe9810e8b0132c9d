// ABOUTME: Search normalization for catalog lookups
// ABOUTME: Strips punctuation, trims and upper-cases so title/author matching ignores format

package store

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize removes every rune that is not a letter, digit, underscore or
// whitespace, trims the result and upper-cases it.
func Normalize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, s)
	// Full Unicode case mapping ("ß" -> "SS"), which strings.ToUpper doesn't do.
	// A Caser holds state, so each call gets its own.
	return cases.Upper(language.Und).String(strings.TrimSpace(cleaned))
}

// spaced upper-cases s with every punctuation rune read as a word break and
// runs of whitespace collapsed, so "lewis,carroll" gives "LEWIS CARROLL".
func spaced(s string) string {
	broken := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, s)
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(broken), " "))
}

type pair struct {
	lo, hi string
}

func newPair(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// MatchKey is the unordered pair {title, author} used for search equality.
// Because it is unordered a swapped title and author still match.
type MatchKey struct {
	stripped pair // Normalize: punctuation dropped ("J.R.R." -> "JRR")
	spaced   pair // punctuation as a word break ("lewis,carroll" -> "LEWIS CARROLL")
}

// NewMatchKey builds the comparison key for a title/author pair
func NewMatchKey(title, author string) MatchKey {
	return MatchKey{
		stripped: newPair(Normalize(title), Normalize(author)),
		spaced:   newPair(spaced(title), spaced(author)),
	}
}

// Matches reports whether two keys name the same book under either reading
// of their punctuation.
func (k MatchKey) Matches(other MatchKey) bool {
	return k.stripped == other.stripped || k.spaced == other.spaced
}
