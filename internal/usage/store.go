package usage

import (
	"context"
	"errors"

	"github.com/eleven-am/voice-bridge/internal/shared"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

func (s *Store) Create(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = shared.NewID("usage_")
	}
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) GetBySession(ctx context.Context, sessionID string) (*Record, error) {
	var r Record
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &r, err
}

// Totals returns the all-time completed session count and token sum.
func (s *Store) Totals(ctx context.Context) (sessions int64, tokens int64, err error) {
	var result struct {
		Sessions int64
		Tokens   int64
	}
	err = s.db.WithContext(ctx).Model(&Record{}).
		Select("COUNT(*) as sessions, COALESCE(SUM(total_tokens), 0) as tokens").
		Scan(&result).Error
	return result.Sessions, result.Tokens, err
}
