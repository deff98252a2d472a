// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes render and pipeline counters. Handlers depend on
// the Recorder interface so metrics stay optional.
package metrics

import "time"

// Result labels for pipeline write counters.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Recorder receives observability events from the HTTP layer.
type Recorder interface {
	ObserveRender(outcome string, d time.Duration)
	IncCacheResult(hit bool)
	IncPipelineWrite(op, result string)
	IncCacheInvalidation(keys int)
}

// NoopRecorder discards every event.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRender(string, time.Duration) {}
func (NoopRecorder) IncCacheResult(bool)                 {}
func (NoopRecorder) IncPipelineWrite(string, string)     {}
func (NoopRecorder) IncCacheInvalidation(int)            {}
