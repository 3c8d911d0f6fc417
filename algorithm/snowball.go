package algorithm

import (
	"unicode/utf8"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/danish"
	"github.com/blevesearch/snowballstem/dutch"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/finnish"
	"github.com/blevesearch/snowballstem/french"
	"github.com/blevesearch/snowballstem/german"
	"github.com/blevesearch/snowballstem/hungarian"
	"github.com/blevesearch/snowballstem/italian"
	"github.com/blevesearch/snowballstem/norwegian"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/blevesearch/snowballstem/romanian"
	"github.com/blevesearch/snowballstem/russian"
	"github.com/blevesearch/snowballstem/spanish"
	"github.com/blevesearch/snowballstem/swedish"
	"github.com/blevesearch/snowballstem/turkish"
	"github.com/pkg/errors"
)

// Builtins lists the bundled algorithms with the aliases libstemmer accepts
// for them.
var Builtins = []Entry{
	{Name: "danish", Aliases: []string{"da", "dan"}, Plugin: snowball(danish.Stem)},
	{Name: "dutch", Aliases: []string{"nl", "dut", "nld"}, Plugin: snowball(dutch.Stem)},
	{Name: "english", Aliases: []string{"en", "eng"}, Plugin: snowball(english.Stem)},
	{Name: "finnish", Aliases: []string{"fi", "fin"}, Plugin: snowball(finnish.Stem)},
	{Name: "french", Aliases: []string{"fr", "fre", "fra"}, Plugin: snowball(french.Stem)},
	{Name: "german", Aliases: []string{"de", "ger", "deu"}, Plugin: snowball(german.Stem)},
	{Name: "hungarian", Aliases: []string{"hu", "hun"}, Plugin: snowball(hungarian.Stem)},
	{Name: "italian", Aliases: []string{"it", "ita"}, Plugin: snowball(italian.Stem)},
	{Name: "norwegian", Aliases: []string{"no", "nor"}, Plugin: snowball(norwegian.Stem)},
	{Name: "porter", Plugin: Func(porter)},
	{Name: "portuguese", Aliases: []string{"pt", "por"}, Plugin: snowball(portuguese.Stem)},
	{Name: "romanian", Aliases: []string{"ro", "rum", "ron"}, Plugin: snowball(romanian.Stem)},
	{Name: "russian", Aliases: []string{"ru", "rus"}, Plugin: snowball(russian.Stem)},
	{Name: "spanish", Aliases: []string{"es", "esl", "spa"}, Plugin: snowball(spanish.Stem)},
	{Name: "swedish", Aliases: []string{"sv", "swe"}, Plugin: snowball(swedish.Stem)},
	{Name: "turkish", Aliases: []string{"tr", "tur"}, Plugin: snowball(turkish.Stem)},
}

var defaultRegistry = mustRegistry(Builtins...)

// Default returns the process-wide registry of bundled algorithms.
func Default() *Registry {
	return defaultRegistry
}

func mustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// snowball wraps a generated Snowball stemmer. Each call gets its own Env, so
// the resulting plugin holds no state between calls.
func snowball(stem func(*snowballstem.Env) bool) Func {
	return func(word string) (string, error) {
		if err := checkUTF8(word); err != nil {
			return "", err
		}
		env := snowballstem.NewEnv(word)
		stem(env)
		return env.Current(), nil
	}
}

// porter is the original 1980 Porter algorithm. Case is left untouched to
// match the Snowball stemmers.
func porter(word string) (string, error) {
	if err := checkUTF8(word); err != nil {
		return "", err
	}
	if utf8.RuneCountInString(word) < 3 {
		return word, nil
	}
	return string(porterstemmer.StemWithoutLowerCasing([]rune(word))), nil
}

func checkUTF8(word string) error {
	if !utf8.ValidString(word) {
		return errors.Wrapf(ErrMalformedInput, "invalid UTF-8 in %q", word)
	}
	return nil
}
