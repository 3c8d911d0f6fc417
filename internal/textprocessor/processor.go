// Package textprocessor turns free text into stemmed terms.
package textprocessor

import (
	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/internal/tokenizer"
	"github.com/deidaraiorek/deistem/stemmer"
)

// TextProcessor is not safe for concurrent use: it owns a Stemmer.
type TextProcessor struct {
	tokenizer *tokenizer.Tokenizer
	stemmer   *stemmer.Stemmer
}

// NewTextProcessor builds a processor for a bundled algorithm, using that
// language's stopword list when one exists.
func NewTextProcessor(name string, cacheSize int) (*TextProcessor, error) {
	canonical, err := algorithm.Default().Canonical(name)
	if err != nil {
		return nil, err
	}
	s, err := stemmer.New(canonical, stemmer.WithCacheSize(cacheSize))
	if err != nil {
		return nil, err
	}
	return New(tokenizer.NewTokenizer(tokenizer.StopWordsFor(canonical)), s), nil
}

func New(tok *tokenizer.Tokenizer, s *stemmer.Stemmer) *TextProcessor {
	return &TextProcessor{tokenizer: tok, stemmer: s}
}

func (tp *TextProcessor) Stemmer() *stemmer.Stemmer {
	return tp.stemmer
}

func (tp *TextProcessor) Process(text string) ([]string, error) {
	return tp.stemmer.StemWords(tp.tokenizer.Tokenize(text))
}

func (tp *TextProcessor) ProcessToFrequency(text string) (map[string]int, error) {
	stems, err := tp.Process(text)
	if err != nil {
		return nil, err
	}

	freq := make(map[string]int)
	for _, stem := range stems {
		freq[stem]++
	}
	return freq, nil
}

type DocumentFields struct {
	Title       string
	Description string
	Content     string
}

// ProcessedDocument keys TermFrequencies by stem. Forms and
// TokenFrequencies describe the surface tokens the stems came from.
type ProcessedDocument struct {
	TermFrequencies  map[string]int
	TokenFrequencies map[string]int
	Forms            map[string]string
	TotalTerms       int
	UniqueTerms      int
}

func (tp *TextProcessor) ProcessDocument(doc DocumentFields) (ProcessedDocument, error) {
	return tp.ProcessDocumentWithWeights(doc, 1, 1, 1)
}

// ProcessDocumentWithWeights counts every term of a field weight times.
// Fields with a weight of zero or less are skipped.
func (tp *TextProcessor) ProcessDocumentWithWeights(doc DocumentFields, titleWeight, descWeight, contentWeight int) (ProcessedDocument, error) {
	pd := ProcessedDocument{
		TermFrequencies:  make(map[string]int),
		TokenFrequencies: make(map[string]int),
		Forms:            make(map[string]string),
	}

	fields := []struct {
		text   string
		weight int
	}{
		{doc.Title, titleWeight},
		{doc.Description, descWeight},
		{doc.Content, contentWeight},
	}

	for _, f := range fields {
		if f.text == "" || f.weight <= 0 {
			continue
		}

		tokens := tp.tokenizer.Tokenize(f.text)
		stems, err := tp.stemmer.StemWords(tokens)
		if err != nil {
			return ProcessedDocument{}, err
		}

		for i, token := range tokens {
			pd.TermFrequencies[stems[i]] += f.weight
			pd.TokenFrequencies[token] += f.weight
			pd.Forms[token] = stems[i]
		}
	}

	for _, freq := range pd.TermFrequencies {
		pd.TotalTerms += freq
	}
	pd.UniqueTerms = len(pd.TermFrequencies)

	return pd, nil
}
