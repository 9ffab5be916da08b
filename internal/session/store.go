package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/eleven-am/voice-bridge/internal/shared"
	"github.com/redis/go-redis/v9"
)

const (
	sessionTTL = 24 * time.Hour
	metricsTTL = 7 * 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) CreateSession(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = shared.NewID("sess_")
	}
	sess.Status = StatusActive
	sess.StartedAt = time.Now()
	sess.LastActiveAt = time.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, sess.RedisKey(), data, sessionTTL).Err()
}

func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, "session:"+id).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) UpdateSession(ctx context.Context, sess *Session) error {
	sess.LastActiveAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, sessionTTL).Err()
}

// EndSession marks the record terminal with the final token total. The
// record is kept until its TTL expires so recent conversations stay
// inspectable.
func (s *Store) EndSession(ctx context.Context, id string, status Status, totalTokens int64) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	sess.Status = status
	sess.EndedAt = time.Now()
	sess.TotalTokens = totalTokens
	return s.UpdateSession(ctx, sess)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.redis.Del(ctx, "session:"+id).Err()
}

func (s *Store) ActiveSessions(ctx context.Context) ([]*Session, error) {
	keys, err := s.redis.Keys(ctx, "session:sess_*").Result()
	if err != nil {
		return nil, err
	}

	var sessions []*Session
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		if sess.Status == StatusActive {
			sessions = append(sessions, &sess)
		}
	}
	return sessions, nil
}

func (s *Store) ActiveCount(ctx context.Context) (int, error) {
	sessions, err := s.ActiveSessions(ctx)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

func (s *Store) IncrementMetric(ctx context.Context, field string, value int64) error {
	now := time.Now().UTC()
	key := MetricsRedisKey(now.Format("2006-01-02"), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, field, value)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) IncrementSessions(ctx context.Context) error {
	return s.IncrementMetric(ctx, "sessions", 1)
}

func (s *Store) IncrementAudioChunks(ctx context.Context) error {
	return s.IncrementMetric(ctx, "audio_chunks", 1)
}

func (s *Store) IncrementTextMessages(ctx context.Context) error {
	return s.IncrementMetric(ctx, "text_messages", 1)
}

func (s *Store) IncrementResponses(ctx context.Context) error {
	return s.IncrementMetric(ctx, "responses", 1)
}

func (s *Store) IncrementInterruptions(ctx context.Context) error {
	return s.IncrementMetric(ctx, "interruptions", 1)
}

func (s *Store) IncrementErrors(ctx context.Context) error {
	return s.IncrementMetric(ctx, "error_count", 1)
}

// AddTokens records the final token total of an ended session into the
// current hourly bucket.
func (s *Store) AddTokens(ctx context.Context, tokens int64) error {
	return s.IncrementMetric(ctx, "tokens", tokens)
}

func (s *Store) GetMetrics(ctx context.Context, hours int) ([]*Metrics, error) {
	now := time.Now().UTC()
	var metrics []*Metrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := MetricsRedisKey(t.Format("2006-01-02"), t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil || len(data) == 0 {
			continue
		}

		m := &Metrics{
			Date: t.Format("2006-01-02"),
			Hour: t.Hour(),
		}

		if v, ok := data["sessions"]; ok {
			m.Sessions, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["audio_chunks"]; ok {
			m.AudioChunks, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["text_messages"]; ok {
			m.TextMessages, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["responses"]; ok {
			m.Responses, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["interruptions"]; ok {
			m.Interruptions, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["error_count"]; ok {
			m.ErrorCount, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["tokens"]; ok {
			m.Tokens, _ = strconv.ParseInt(v, 10, 64)
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}

func (s *Store) GetMetricsForLast24Hours(ctx context.Context) ([]*Metrics, error) {
	return s.GetMetrics(ctx, 24)
}
