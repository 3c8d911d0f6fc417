package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var entities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "and",
	"&lt;", "<",
	"&gt;", ">",
)

type Tokenizer struct {
	IsStopWord func(string) bool
	minLength  int
	maxLength  int
}

// NewTokenizer returns a tokenizer that drops words for which isStopWord
// reports true. A nil isStopWord keeps every word.
func NewTokenizer(isStopWord func(string) bool) *Tokenizer {
	return &Tokenizer{
		IsStopWord: isStopWord,
		minLength:  2,
		maxLength:  50,
	}
}

func (t *Tokenizer) Tokenize(text string) []string {
	words := t.split(t.normalize(text))

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if t.IsStopWord != nil && t.IsStopWord(word) {
			continue
		}

		n := utf8.RuneCountInString(word)
		if n < t.minLength || n > t.maxLength {
			continue
		}

		if !t.IsValidToken(word) {
			continue
		}

		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) TokenizeToFrequency(text string) map[string]int {
	tokens := t.Tokenize(text)
	result := make(map[string]int)

	for _, token := range tokens {
		result[token]++
	}
	return result
}

// normalize folds compatibility characters (ligatures, full-width forms)
// with NFKC before lowercasing.
func (t *Tokenizer) normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	return entities.Replace(text)
}

func (t *Tokenizer) split(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// IsValidToken rejects tokens with no letters or with more digits than
// letters.
func (t *Tokenizer) IsValidToken(word string) bool {
	alphaCount := 0
	digitCount := 0

	for _, r := range word {
		if unicode.IsLetter(r) {
			alphaCount++
		} else if unicode.IsDigit(r) {
			digitCount++
		}
	}
	if alphaCount == 0 {
		return false
	}
	if digitCount > alphaCount {
		return false
	}
	return true
}
