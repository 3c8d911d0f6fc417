package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deidaraiorek/deistem/internal/server"
	"github.com/deidaraiorek/deistem/stemmer"
)

func newTestServer(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()
	srv, err := server.New(server.Config{DefaultAlgorithm: "english", CacheSize: 100}, zaptest.NewLogger(t))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func postStem(t *testing.T, url, body, acceptLanguage string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/stem", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := server.New(server.Config{DefaultAlgorithm: "klingon"}, nil)
	assert.Error(t, err)

	_, err = server.New(server.Config{DefaultAlgorithm: "english", CacheSize: -1}, nil)
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAlgorithms(t *testing.T) {
	_, ts := newTestServer(t)

	var body struct {
		Algorithms []string `json:"algorithms"`
		Version    string   `json:"version"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/algorithms", &body))
	assert.Equal(t, stemmer.Algorithms(), body.Algorithms)
	assert.Equal(t, stemmer.Version, body.Version)
}

func TestStemWord(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		algo   string
		stem   string
	}{
		{"/stem/english/cycling", http.StatusOK, "english", "cycl"},
		{"/stem/en/cycling", http.StatusOK, "english", "cycl"},
		{"/stem/german/Fahrradfahren", http.StatusOK, "german", "Fahrradfahr"},
		{"/stem/porter/caresses", http.StatusOK, "porter", "caress"},
		{"/stem/klingon/cycling", http.StatusNotFound, "", ""},
		{"/stem/english/caf%E9", http.StatusUnprocessableEntity, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body map[string]string
			status := getJSON(t, ts.URL+tt.path, &body)
			assert.Equal(t, tt.status, status)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Equal(t, tt.algo, body["algorithm"])
			assert.Equal(t, tt.stem, body["stem"])
		})
	}
}

func TestStemWords(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postStem(t, ts.URL, `{"algorithm":"english","words":["cycling","cyclist","cycling"]}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "english", body["algorithm"])
	assert.Equal(t, []interface{}{"cycl", "cyclist", "cycl"}, body["stems"])
}

func TestStemWordsEmpty(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := postStem(t, ts.URL, `{"algorithm":"french","words":[]}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, body["stems"])
}

func TestStemWordsNegotiatesLanguage(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		acceptLanguage string
		want           string
	}{
		{"de-CH, en;q=0.8", "german"},
		{"zh, fr;q=0.5", "french"},
		{"zh", "english"},
		{"", "english"},
		{"!!!", "english"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			status, body := postStem(t, ts.URL, `{"words":["cycling"]}`, tt.acceptLanguage)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, body["algorithm"])
		})
	}
}

func TestStemWordsErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `{"words":`, http.StatusBadRequest},
		{"wrong type", `{"words":"cycling"}`, http.StatusBadRequest},
		{"unknown algorithm", `{"algorithm":"klingon","words":["a"]}`, http.StatusNotFound},
		{"case sensitive name", `{"algorithm":"English","words":["a"]}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postStem(t, ts.URL, tt.body, "")
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFailedBatchLeavesCacheUntouched(t *testing.T) {
	pool := server.NewPool(10)

	_, _, err := pool.StemWords("english", []string{"cycling"})
	require.NoError(t, err)
	before := pool.Stats()

	// JSON decoding replaces invalid UTF-8, so this is only reachable in-process.
	_, stems, err := pool.StemWords("english", []string{"running", "caf\xe9"})
	require.Error(t, err)
	assert.Nil(t, stems)
	assert.Equal(t, before, pool.Stats())
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	postStem(t, ts.URL, `{"algorithm":"english","words":["cycling","cycling"]}`, "")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, `deistem_cache_hits_total{algorithm="english"} 1`)
	assert.Contains(t, text, `deistem_cache_misses_total{algorithm="english"} 1`)
	assert.Contains(t, text, `deistem_cache_entries{algorithm="english"} 1`)

	// The request counter is bumped after the response is flushed.
	assert.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(raw), `deistem_http_requests_total{code="200",route="/stem"} 1`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPoolConcurrentUse(t *testing.T) {
	pool := server.NewPool(10)
	words := []string{"cycling", "running", "jumping", "swimming", "walking", "reading"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, stems, err := pool.StemWords("english", words)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, "cycl", stems[0])
			}
		}()
	}
	wg.Wait()

	stats := pool.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "english", stats[0].Algorithm)
	assert.Equal(t, uint64(8*200*len(words)), stats[0].Hits+stats[0].Misses)
}

func TestListenAndServeShutsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	srv, err := server.New(server.Config{Addr: addr, DefaultAlgorithm: "english"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
