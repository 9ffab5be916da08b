package session

import (
	"strconv"
	"time"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusFailed Status = "failed"
)

// Session is the Redis record for one bridged conversation. It mirrors
// the lifetime of a client connection and its backend session.
type Session struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connection_id"`
	RemoteAddr   string    `json:"remote_addr"`
	Status       Status    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	EndedAt      time.Time `json:"ended_at"`
	TotalTokens  int64     `json:"total_tokens"`
}

func (s *Session) RedisKey() string {
	return "session:" + s.ID
}

// Metrics is one hourly bucket of bridge-wide counters.
type Metrics struct {
	Date          string `json:"date"`
	Hour          int    `json:"hour"`
	Sessions      int64  `json:"sessions"`
	AudioChunks   int64  `json:"audio_chunks"`
	TextMessages  int64  `json:"text_messages"`
	Responses     int64  `json:"responses"`
	Interruptions int64  `json:"interruptions"`
	ErrorCount    int64  `json:"error_count"`
	Tokens        int64  `json:"tokens"`
}

func MetricsRedisKey(date string, hour int) string {
	return "bridge:metrics:" + date + ":" + strconv.Itoa(hour)
}
