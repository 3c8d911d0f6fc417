package corpus

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ReadWords splits r on whitespace.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	return words, scanner.Err()
}

// ReadWordFile returns the whitespace separated words of a text file.
func ReadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening word file")
	}
	defer f.Close()

	words, err := ReadWords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return words, nil
}
