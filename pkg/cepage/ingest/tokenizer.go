package ingest

import (
	"strings"
	"unicode"
)

// Tokenizer handles text tokenization and normalization for vocabulary
// lookup. Terms the fitted vocabulary never saw are dropped later by the
// vectorizer, so the tokenizer itself carries no stopword list.
type Tokenizer struct{}

// NewTokenizer creates a new tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into normalized tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				word := t.cleanToken(current.String())
				if word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		word := t.cleanToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// cleanToken strips leading/trailing hyphens, normalizes consecutive
// hyphens, and drops single-character tokens.
func (t *Tokenizer) cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	if len(token) <= 1 {
		return ""
	}

	return token
}
