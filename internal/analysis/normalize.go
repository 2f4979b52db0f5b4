package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases text, replaces every character that is neither a word
// character nor whitespace with a space, collapses whitespace and trims.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = reNonWord.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokens splits normalized text into whitespace-delimited tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// isFeatureToken reports whether a token can become a feature: at least two
// runes and not a stop word.
func isFeatureToken(tok string) bool {
	return utf8.RuneCountInString(tok) >= 2 && !IsStopWord(tok)
}

// terms extracts the unigram and bigram terms of a normalized document in
// extraction order. Bigrams are only formed from tokens that sit next to each
// other in the text, so every bigram is a literal substring of it.
func terms(normalized string) []string {
	toks := Tokens(normalized)
	keep := make([]bool, len(toks))

	var out []string
	for i, tok := range toks {
		if isFeatureToken(tok) {
			keep[i] = true
			out = append(out, tok)
		}
	}
	for i := 0; i+1 < len(toks); i++ {
		if keep[i] && keep[i+1] {
			out = append(out, toks[i]+" "+toks[i+1])
		}
	}
	return out
}
