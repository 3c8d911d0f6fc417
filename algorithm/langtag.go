package algorithm

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// languageBases maps ISO 639-1 bases to bundled algorithms. Bokmål and
// Nynorsk share the Norwegian stemmer.
var languageBases = map[string]string{
	"da": "danish",
	"nl": "dutch",
	"en": "english",
	"fi": "finnish",
	"fr": "french",
	"de": "german",
	"hu": "hungarian",
	"it": "italian",
	"no": "norwegian",
	"nb": "norwegian",
	"nn": "norwegian",
	"pt": "portuguese",
	"ro": "romanian",
	"ru": "russian",
	"es": "spanish",
	"sv": "swedish",
	"tr": "turkish",
}

// FromLanguageTag maps a BCP47 tag such as "en-US" or "pt_BR" to the name of
// a bundled algorithm. It is a convenience for callers holding locale data;
// Registry.Resolve never goes through it.
func FromLanguageTag(tag string) (string, error) {
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return "", errors.Wrapf(ErrUnknownAlgorithm, "language tag %q", tag)
	}
	// Low confidence is what Parse reports for tags it had to guess at.
	base, conf := t.Base()
	if conf <= language.Low {
		return "", errors.Wrapf(ErrUnknownAlgorithm, "language tag %q", tag)
	}
	name, ok := languageBases[base.String()]
	if !ok {
		return "", errors.Wrapf(ErrUnknownAlgorithm, "language tag %q", tag)
	}
	return name, nil
}
