package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/stemmer"
)

type algorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
	Version    string   `json:"version"`
}

type stemWordResponse struct {
	Algorithm string `json:"algorithm"`
	Word      string `json:"word"`
	Stem      string `json:"stem"`
}

type stemWordsRequest struct {
	Algorithm string   `json:"algorithm"`
	Words     []string `json:"words"`
}

type stemWordsResponse struct {
	Algorithm string   `json:"algorithm"`
	Stems     []string `json:"stems"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, algorithmsResponse{
		Algorithms: stemmer.Algorithms(),
		Version:    stemmer.Version,
	})
}

func (s *Server) handleStemWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	canonical, stem, err := s.pool.StemWord(chi.URLParam(r, "algorithm"), word)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stemWordResponse{Algorithm: canonical, Word: word, Stem: stem})
}

func (s *Server) handleStemWords(w http.ResponseWriter, r *http.Request) {
	var req stemWordsRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	name := req.Algorithm
	if name == "" {
		name = s.negotiate(r.Header.Get("Accept-Language"))
	}

	canonical, stems, err := s.pool.StemWords(name, req.Words)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if stems == nil {
		stems = []string{}
	}
	writeJSON(w, http.StatusOK, stemWordsResponse{Algorithm: canonical, Stems: stems})
}

// negotiate picks the first Accept-Language entry with a bundled algorithm,
// falling back to the configured default.
func (s *Server) negotiate(header string) string {
	if header == "" {
		return s.cfg.DefaultAlgorithm
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return s.cfg.DefaultAlgorithm
	}
	for _, tag := range tags {
		if name, err := algorithm.FromLanguageTag(tag.String()); err == nil {
			return name
		}
	}
	return s.cfg.DefaultAlgorithm
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, algorithm.ErrUnknownAlgorithm):
		status = http.StatusNotFound
	case errors.Is(err, algorithm.ErrMalformedInput):
		status = http.StatusUnprocessableEntity
	default:
		s.log.Error("stemming failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
