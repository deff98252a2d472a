// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	once sync.Once

	renderDuration   *prom.HistogramVec
	renderOutcomes   *prom.CounterVec
	cacheResults     *prom.CounterVec
	pipelineWrites   *prom.CounterVec
	cacheInvalidated prom.Counter
}

// NewPrometheusRecorder registers the sitegen collectors on reg. A nil reg
// gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "render_duration_seconds",
			Help:      "Duration of site render requests by outcome",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"})
		pr.renderOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "render_outcomes_total",
			Help:      "Site render requests by outcome",
		}, []string{"outcome"})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "page_cache_results_total",
			Help:      "Page cache lookups by result",
		}, []string{"result"})
		pr.pipelineWrites = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "pipeline_writes_total",
			Help:      "Pipeline API writes by operation and result",
		}, []string{"op", "result"})
		pr.cacheInvalidated = prom.NewCounter(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "page_cache_invalidated_keys_total",
			Help:      "Cached pages removed by invalidation",
		})
		reg.MustRegister(pr.renderDuration, pr.renderOutcomes, pr.cacheResults, pr.pipelineWrites, pr.cacheInvalidated)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRender(outcome string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(outcome).Observe(d.Seconds())
	p.renderOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncCacheResult(hit bool) {
	if p == nil || p.cacheResults == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheResults.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncPipelineWrite(op, result string) {
	if p == nil || p.pipelineWrites == nil {
		return
	}
	p.pipelineWrites.WithLabelValues(op, result).Inc()
}

func (p *PrometheusRecorder) IncCacheInvalidation(keys int) {
	if p == nil || p.cacheInvalidated == nil || keys <= 0 {
		return
	}
	p.cacheInvalidated.Add(float64(keys))
}
