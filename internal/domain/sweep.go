package domain

import (
	"encoding/json"
	"time"
)

// Sweep names
const (
	SweepSpawn   = "spawn"
	SweepIncome  = "income"
	SweepDespawn = "despawn"

	SweepAuditCleanup = "audit_cleanup"
)

// SweepReport summarises one sweep run
type SweepReport struct {
	Sweep     string        `json:"sweep"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"-"` // encoded as "duration_ms"
	Scanned   int           `json:"scanned"`
	Applied   int           `json:"applied"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}

type sweepReportAlias SweepReport

type sweepReportJSON struct {
	sweepReportAlias
	DurationMs int64 `json:"duration_ms"`
}

// MarshalJSON implements json.Marshaler
func (r SweepReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(sweepReportJSON{sweepReportAlias: sweepReportAlias(r), DurationMs: r.Duration.Milliseconds()})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *SweepReport) UnmarshalJSON(data []byte) error {
	var raw sweepReportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = SweepReport(raw.sweepReportAlias)
	r.Duration = time.Duration(raw.DurationMs) * time.Millisecond
	return nil
}
