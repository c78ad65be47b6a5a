package ml

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
// These are compiled once at startup instead of on every call
var (
	// Token pattern: runs of two or more word characters
	reToken = regexp.MustCompile(`\b\w\w+\b`)

	// Whitespace runs collapse to a single space
	reSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeText canonicalizes a message for classification: NFKC folding
// (collapses full-width and compatibility forms scammers use to dodge
// keyword matching), lower-casing and whitespace normalization.
func NormalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize splits normalized text into word tokens. Single-character
// tokens are dropped, matching the vectorizer's training-time behavior.
func Tokenize(text string) []string {
	return reToken.FindAllString(text, -1)
}
