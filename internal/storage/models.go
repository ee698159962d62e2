package storage

import (
	"encoding/json"
	"time"
)

// FindingRecord is one persisted classification verdict. The full finding is
// stored as JSON in Detail; the indexed columns cover dashboard queries.
type FindingRecord struct {
	ID            int64           `json:"id"`
	EventID       string          `json:"event_id"`
	Category      string          `json:"category"`
	Severity      string          `json:"severity"`
	Confidence    float64         `json:"confidence"`
	ImpactScore   float64         `json:"impact_score"`
	PriorityScore int             `json:"priority_score"`
	Detail        json.RawMessage `json:"detail"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HealthSnapshot is one aggregate health score observation.
type HealthSnapshot struct {
	ID           int64     `json:"id"`
	AppName      string    `json:"app_name"`
	Score        float64   `json:"score"`
	FindingCount int       `json:"finding_count"`
	CreatedAt    time.Time `json:"created_at"`
}
