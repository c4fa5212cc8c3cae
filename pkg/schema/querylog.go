package schema

import "time"

// QueryLogEntry is the per-request audit record. Query text is never stored;
// only its fingerprint is, so logs stay useful for cache and quality analysis
// without holding health questions in the clear. UserID links the entry to a
// profile solely so a profile purge can remove it.
type QueryLogEntry struct {
	ID             int64     `json:"id"`
	RequestID      string    `json:"request_id"`
	UserID         string    `json:"user_id"`
	QueryHash      string    `json:"query_hash"`
	Language       Language  `json:"language"`
	Mode           Mode      `json:"mode"`
	State          string    `json:"state"`
	Degraded       bool      `json:"degraded"`
	PassageCount   int       `json:"passage_count"`
	SafetySeverity string    `json:"safety_severity"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
