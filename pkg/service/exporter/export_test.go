package exporter

import "github.com/prometheus/client_golang/prometheus"

func Entities(e *Exporter) *prometheus.GaugeVec   { return e.entities }
func Summary(e *Exporter) *prometheus.GaugeVec    { return e.summary }
func Divisions(e *Exporter) *prometheus.GaugeVec  { return e.divisions }
func RiskLevels(e *Exporter) *prometheus.GaugeVec { return e.riskLevels }
func LastRefresh(e *Exporter) prometheus.Gauge    { return e.lastRefresh }
