/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/server"
	"github.com/rs/zerolog"
)

func newServer(t testing.TB) (server.Server, *httptest.Server) {
	return newStrictServer(t, false)
}

func newStrictServer(t testing.TB, strict bool) (server.Server, *httptest.Server) {
	lexicon, err := grammar.NewLexicon()
	if err != nil {
		t.Fatal(err)
	}

	srv := server.New(zerolog.Nop(), lexicon, 0, 0, strict)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t testing.TB, url, body string) *http.Response {
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStatsAccepted(t *testing.T) {
	_, ts := newServer(t)

	resp := post(t, ts.URL+"/stats", "s : A B ;\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wanted 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("wanted a request id")
	}

	var stats grammar.Statistics
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats != (grammar.Statistics{RuleSets: 1, Nonterminals: 1, Terminals: 2}) {
		t.Errorf("unexpected statistics: %s", stats)
	}
}

func TestStatsRejected(t *testing.T) {
	_, ts := newServer(t)

	resp := post(t, ts.URL+"/stats?name=g.txt", "s : A x ;\n")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("wanted 422, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "g.txt:1:6: undefined nonterminals: x" {
		t.Errorf("unexpected error: %s", body.Error)
	}
}

func TestStatsStrictQuery(t *testing.T) {
	_, ts := newServer(t)

	input := "s : A b ; b : B ; c : C ;\n"
	if resp := post(t, ts.URL+"/stats", input); resp.StatusCode != http.StatusOK {
		t.Errorf("wanted 200, got %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/stats?strict=true", input); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("wanted 422, got %d", resp.StatusCode)
	}
}

func TestStatsBadStrictValue(t *testing.T) {
	_, ts := newStrictServer(t, true)

	input := "s : A ; t : B ;\n"
	if resp := post(t, ts.URL+"/stats?strict=yes", input); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("wanted 400, got %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/stats", input); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("wanted strict server to reject unused rule set, got %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/stats?strict=false", input); resp.StatusCode != http.StatusOK {
		t.Errorf("wanted strict=false to accept, got %d", resp.StatusCode)
	}
}

func TestStatsTooLarge(t *testing.T) {
	srv, _ := newServer(t)

	body := strings.NewReader(strings.Repeat(" ", server.MaxGrammarBytes+1))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", body))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("wanted 413, got %d", rec.Code)
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestStatsBodyReadFailure(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", failingBody{}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("wanted 400, got %d", rec.Code)
	}
}

func TestStatsMethod(t *testing.T) {
	_, ts := newServer(t)

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wanted 405, got %d", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	srv, ts := newServer(t)

	post(t, ts.URL+"/stats", "s : A ;\n")
	post(t, ts.URL+"/stats", "s : A ;\n")
	post(t, ts.URL+"/stats", "")

	rec := httptest.NewRecorder()
	srv.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`gramstats_validations{outcome="accepted"} 2`,
		`gramstats_validations{outcome="rejected"} 1`,
		`gramstats_grammar_bytes 16`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("wanted metrics to contain %s", want)
		}
	}
}

func TestProcessMetrics(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process metrics are only collected on linux")
	}

	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "gramstats_process_start_time_seconds") {
		t.Error("wanted process metrics to be registered")
	}
}

func BenchmarkStats(b *testing.B) {
	_, ts := newServer(b)
	body := "expr : expr PLUS term | term ;\nterm : term STAR NUM | NUM ;\n"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := http.Post(ts.URL+"/stats", "text/plain", strings.NewReader(body))
		if err != nil {
			b.Fatal(err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
