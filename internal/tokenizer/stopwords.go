package tokenizer

import (
	"github.com/kljensen/snowball/english"
)

// StopWordsFor returns the stopword predicate for a canonical algorithm name,
// or nil when no list is bundled for it. Words must already be lowercase.
func StopWordsFor(algorithm string) func(string) bool {
	switch algorithm {
	case "english", "porter":
		return english.IsStopWord
	}
	return nil
}
