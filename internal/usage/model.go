package usage

import "time"

// Record is the durable ledger entry for one completed bridge session.
// Written exactly once, at teardown.
type Record struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"not null;index" json:"session_id"`
	TotalTokens int64     `gorm:"default:0" json:"total_tokens"`
	DurationMs  int64     `gorm:"default:0" json:"duration_ms"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	CreatedAt   time.Time `json:"created_at"`
}
