package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deidaraiorek/deistem/cmd"
	"github.com/deidaraiorek/deistem/stemmer"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "deistem "+stemmer.Version+"\n", out)
}

func TestAlgorithmsCmd(t *testing.T) {
	out, err := run(t, "", "algorithms")
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.Contains(t, lines, "english")
	assert.NotContains(t, lines, "en")

	out, err = run(t, "", "algorithms", "--aliases")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "en")
}

func TestStemCmd(t *testing.T) {
	out, err := run(t, "", "stem", "cycling", "cyclist")
	require.NoError(t, err)
	assert.Equal(t, "cycl\ncyclist\n", out)

	out, err = run(t, "", "stem", "-a", "de", "Fahrradfahren")
	require.NoError(t, err)
	assert.Equal(t, "Fahrradfahr\n", out)
}

func TestStemCmdStdin(t *testing.T) {
	out, err := run(t, "caresses ponies\ncats\n", "stem", "--algorithm", "porter", "--cache_size", "0")
	require.NoError(t, err)
	assert.Equal(t, "caress\nponi\ncat\n", out)
}

func TestStemCmdErrors(t *testing.T) {
	_, err := run(t, "", "stem", "-a", "klingon", "word")
	assert.Error(t, err)

	_, err = run(t, "", "stem", "--cache_size", "-1", "word")
	assert.Error(t, err)
}

func TestStemCmdEnv(t *testing.T) {
	t.Setenv("DEISTEM_ALGORITHM", "french")
	out, err := run(t, "", "stem", "cyclisme")
	require.NoError(t, err)
	assert.Equal(t, "cyclism\n", out)
}

func TestIngestIndexLookup(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "cycling.txt")
	require.NoError(t, os.WriteFile(doc, []byte("Cycling\nCyclists enjoy cycling. Cycling cycles.\n"), 0o644))

	dbFlags := []string{
		"--pages_db", filepath.Join(dir, "pages.db"),
		"--index_db", filepath.Join(dir, "index.db"),
		"--log_level", "error",
	}

	out, err := run(t, "", append([]string{"ingest", doc}, dbFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1\tfile://")

	_, err = run(t, "", append([]string{"index"}, dbFlags...)...)
	require.NoError(t, err)

	out, err = run(t, "", append([]string{"lookup", "cycling", "zebra"}, dbFlags...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "cycling\tcycl\t"), lines[0])
	assert.Contains(t, lines[0], "cycles")
	assert.Equal(t, "zebra\t-", lines[1])

	out, err = run(t, "", append([]string{"top", "-n", "1"}, dbFlags...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cycl\t"), out)
}

func TestBenchCmd(t *testing.T) {
	words := filepath.Join(t.TempDir(), "voc.txt")
	require.NoError(t, os.WriteFile(words, []byte("running runs ran\n"), 0o644))

	out, err := run(t, "", "bench", words,
		"--cache_sizes", "0,5", "--iterations", "1", "--repeat", "1", "--log_level", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "words=3,cacheSize=0,iters=1")
	assert.Contains(t, lines[1], "words=3,cacheSize=5,iters=1")
}
