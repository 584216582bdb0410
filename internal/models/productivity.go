package models

import "time"

// AnalystProductivity aggregates validation activity for one analyst.
// TotalRollbacks counts reversals performed by the analyst regardless of who
// validated originally.
type AnalystProductivity struct {
	Analyst            string    `db:"analyst" json:"analyst"`
	TotalValidated     int       `db:"total_validated" json:"totalValidated"`
	AvgDurationSeconds float64   `db:"avg_duration_seconds" json:"avgDurationSeconds"`
	TotalRollbacks     int       `db:"total_rollbacks" json:"totalRollbacks"`
	GeneratedAt        time.Time `db:"-" json:"generatedAt"`
}
