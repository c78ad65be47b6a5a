// Package telemetry keeps process-wide engagement counters for the
// stats endpoint. Counters are atomic; reading them never blocks the
// turn path.
package telemetry

import "sync/atomic"

// Metrics is a set of monotonic counters plus the active-session gauge.
type Metrics struct {
	turnsProcessed    atomic.Int64
	scamsDetected     atomic.Int64
	sessionsStarted   atomic.Int64
	sessionsArchived  atomic.Int64
	reportsDelivered  atomic.Int64
	reportsFailed     atomic.Int64
	enrichmentsFailed atomic.Int64
}

var global = &Metrics{}

// Global returns the process-wide metrics instance.
func Global() *Metrics {
	return global
}

func (m *Metrics) TurnProcessed() { m.turnsProcessed.Add(1) }

func (m *Metrics) ScamDetected() { m.scamsDetected.Add(1) }

func (m *Metrics) SessionStarted() { m.sessionsStarted.Add(1) }

func (m *Metrics) SessionArchived() { m.sessionsArchived.Add(1) }

func (m *Metrics) ReportDelivered() { m.reportsDelivered.Add(1) }

func (m *Metrics) ReportFailed() { m.reportsFailed.Add(1) }

func (m *Metrics) EnrichmentFailed() { m.enrichmentsFailed.Add(1) }

// Snapshot is a point-in-time copy for serialization.
type Snapshot struct {
	TurnsProcessed    int64 `json:"turns_processed"`
	ScamsDetected     int64 `json:"scams_detected"`
	SessionsStarted   int64 `json:"sessions_started"`
	SessionsArchived  int64 `json:"sessions_archived"`
	ReportsDelivered  int64 `json:"reports_delivered"`
	ReportsFailed     int64 `json:"reports_failed"`
	EnrichmentsFailed int64 `json:"enrichments_failed"`
}

// Read copies the current counter values.
func (m *Metrics) Read() Snapshot {
	return Snapshot{
		TurnsProcessed:    m.turnsProcessed.Load(),
		ScamsDetected:     m.scamsDetected.Load(),
		SessionsStarted:   m.sessionsStarted.Load(),
		SessionsArchived:  m.sessionsArchived.Load(),
		ReportsDelivered:  m.reportsDelivered.Load(),
		ReportsFailed:     m.reportsFailed.Load(),
		EnrichmentsFailed: m.enrichmentsFailed.Load(),
	}
}
