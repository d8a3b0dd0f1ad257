/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// MaxGrammarBytes bounds the size of a request body.
const MaxGrammarBytes = 4 << 20

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore

	lexicon     *grammar.Lexicon
	port        int
	metricsPort int
	strict      bool
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(log zerolog.Logger, lexicon *grammar.Lexicon, port, metricsPort int, strict bool) Server {
	metrics := NewMetricsStore()
	metrics.RegisterCollector(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: "gramstats",
	}))

	return Server{
		log,
		metrics,
		lexicon,
		port,
		metricsPort,
		strict,
	}
}

func (s *Server) Metrics() MetricsStore {
	return s.metrics
}

// Handler routes the validation API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

func (s *Server) ServeValidation() error {
	s.log.Info().Int("port", s.port).Msg("listening for grammars")
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler())
}

func (s *Server) ServeMetrics() error {
	s.log.Info().Int("port", s.metricsPort).Msg("/metrics endpoint started")
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", s.metricsPort), mux)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	log := s.log.With().Str("request", id).Logger()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"grammars must be POSTed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxGrammarBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Error().Err(err).Int("status", status).Msg("unable to read request body")
		writeJSON(w, status, errorResponse{err.Error()})
		return
	}
	s.metrics.AddGrammarBytes(len(body))

	strict := s.strict
	if q := r.URL.Query().Get("strict"); q != "" {
		if strict, err = strconv.ParseBool(q); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{fmt.Sprintf("bad strict value '%s'", q)})
			return
		}
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "<request>"
	}

	start := time.Now()
	v, err := grammar.NewValidator(s.lexicon, name, bytes.NewReader(body))
	if err != nil {
		s.finish(log, OutcomeFailed, start)
		writeJSON(w, http.StatusInternalServerError, errorResponse{err.Error()})
		return
	}
	v.SetLogger(log)
	v.Strict = strict

	stats, err := v.Validate()
	switch {
	case err == nil:
		s.finish(log, OutcomeAccepted, start)
		log.Debug().Str("size", humanize.Bytes(uint64(len(body)))).Stringer("stats", stats).Msg("grammar accepted")
		writeJSON(w, http.StatusOK, stats)
	case grammar.IsRejection(err):
		s.finish(log, OutcomeRejected, start)
		log.Debug().Str("size", humanize.Bytes(uint64(len(body)))).Err(err).Msg("grammar rejected")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{err.Error()})
	default:
		s.finish(log, OutcomeFailed, start)
		log.Error().Err(err).Msg("unable to validate grammar")
		writeJSON(w, http.StatusInternalServerError, errorResponse{err.Error()})
	}
}

func (s *Server) finish(log zerolog.Logger, outcome string, start time.Time) {
	ns := time.Since(start).Nanoseconds()
	s.metrics.IncValidations(outcome)
	s.metrics.ObserveValidationNS(outcome, ns)
	log.Trace().Str("outcome", outcome).Int64("ns", ns).Msg("validation finished")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
