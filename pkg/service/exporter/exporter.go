// Package exporter publishes report snapshots as Prometheus gauges.
package exporter

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

const namespace = "riskatlas"

// Exporter holds the gauges updated from the latest Snapshot
type Exporter struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	entities    *prometheus.GaugeVec
	summary     *prometheus.GaugeVec
	divisions   *prometheus.GaugeVec
	riskLevels  *prometheus.GaugeVec
	lastRefresh prometheus.Gauge
}

type Option func(*config)

type config struct {
	registry       *prometheus.Registry
	runtimeMetrics bool
}

// WithRegistry registers the gauges in registry instead of a fresh one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithRuntimeMetrics also exports Go runtime and process collectors
func WithRuntimeMetrics() Option {
	return func(c *config) {
		c.runtimeMetrics = true
	}
}

func New(opts ...Option) *Exporter {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	if cfg.runtimeMetrics {
		cfg.registry.MustRegister(collectors.NewGoCollector())
		cfg.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	e := &Exporter{
		registry: cfg.registry,
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Number of stored entities by kind",
		}, []string{"kind"}),
		summary: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary",
			Help:      "Organization wide risk summary by metric",
		}, []string{"metric"}),
		divisions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "division",
			Name:      "summary",
			Help:      "Risk summary of one division by metric",
		}, []string{"division", "metric"}),
		riskLevels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "risk_level_assessments",
			Help:      "Number of risk assessments by risk level",
		}, []string{"level"}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last snapshot",
		}),
	}

	e.registry.MustRegister(e.entities, e.summary, e.divisions, e.riskLevels, e.lastRefresh)
	return e
}

// Registry returns the registry holding the gauges
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus text format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func summaryValues(s metrics.Summary) map[string]float64 {
	return map[string]float64{
		"total_assessments":          float64(s.TotalAssessments),
		"weighted_risk_score":        float64(s.WeightedRiskScore),
		"median_remediation_hours":   s.MedianRemediationHours,
		"pi_risk_score":              float64(s.PIRiskScore),
		"days_since_last_assessment": float64(s.DaysSinceLastAssessment),
		"missing_mitigation":         float64(s.MissingMitigation),
		"global_revenue_risks":       float64(s.GlobalRevenueRisks),
		"local_revenue_risks":        float64(s.LocalRevenueRisks),
		"custom_risks":               float64(s.CustomRisks),
	}
}

// Update replaces every gauge with the values of snap. Labels of divisions
// and levels that disappeared are removed.
func (e *Exporter) Update(snap *usecase.Snapshot) {
	if snap == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.entities.WithLabelValues("division").Set(float64(snap.Divisions))
	e.entities.WithLabelValues("team").Set(float64(snap.Teams))
	e.entities.WithLabelValues("service").Set(float64(snap.Services))
	e.entities.WithLabelValues("assessment").Set(float64(snap.Overall.TotalAssessments))

	for metric, v := range summaryValues(snap.Overall) {
		e.summary.WithLabelValues(metric).Set(v)
	}

	e.divisions.Reset()
	for _, d := range snap.ByDivision {
		for metric, v := range summaryValues(d.Summary) {
			e.divisions.WithLabelValues(d.Division, metric).Set(v)
		}
	}

	// known levels are always exported; unrecognized values get their own label
	e.riskLevels.Reset()
	for _, level := range types.AllRiskLevels() {
		e.riskLevels.WithLabelValues(level.String()).Set(float64(snap.RiskLevels.Count(level.String())))
	}
	for _, v := range snap.RiskLevels.Values() {
		if !types.RiskLevel(v).IsValid() {
			e.riskLevels.WithLabelValues(v).Set(float64(snap.RiskLevels.Count(v)))
		}
	}

	e.lastRefresh.Set(float64(snap.GeneratedAt.Unix()))
}
