/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncValidations(outcome string)
	ObserveValidationNS(outcome string, t int64)
	AddGrammarBytes(n int)
}

type metricsStore struct {
	registry     *prometheus.Registry
	Validations  *prometheus.CounterVec
	ValidationNS *prometheus.HistogramVec
	GrammarBytes prometheus.Counter
}

var (
	OutcomeLabel = "outcome"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(i*i*int(time.Millisecond)/10))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gramstats_validations",
			Help: "Grammar validations by outcome",
		}, []string{OutcomeLabel}),
		ValidationNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gramstats_validation_ns",
			Help:    "Time spent validating a grammar",
			Buckets: buckets,
		}, []string{OutcomeLabel}),
		GrammarBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "gramstats_grammar_bytes",
			Help: "Total size of the grammars received",
		}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncValidations(outcome string) {
	ms.Validations.With(prometheus.Labels{OutcomeLabel: outcome}).Inc()
}

func (ms *metricsStore) ObserveValidationNS(outcome string, t int64) {
	ms.ValidationNS.
		With(prometheus.Labels{OutcomeLabel: outcome}).
		Observe(float64(t))
}

func (ms *metricsStore) AddGrammarBytes(n int) {
	ms.GrammarBytes.Add(float64(n))
}
