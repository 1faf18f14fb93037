// Package feature builds the numeric feature vectors consumed by the
// classifier. The same construction runs at training and at serving time;
// any asymmetry between the two silently corrupts predictions, so all
// feature logic lives here and nowhere else.
package feature

import (
	"strings"
	"unicode"
)

// BuildText joins merchant and description into the single text field the
// vectorizer operates on. Empty inputs are tolerated.
func BuildText(merchant, description string) string {
	return merchant + " " + description
}

// tokenize lowercases the text and extracts word tokens of two or more
// alphanumeric characters. Single-character tokens carry no signal for
// merchant strings and are dropped.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() >= 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
	}
	if current.Len() >= 2 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// ngrams expands tokens into unigrams and bigrams. Bigram terms join their
// parts with a single space.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// Terms returns the full term sequence (unigrams then bigrams) for a text
// field. Exposed for vocabulary fitting.
func Terms(text string) []string {
	return ngrams(tokenize(text))
}
