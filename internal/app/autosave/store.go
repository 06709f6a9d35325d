// Package autosave keeps editor snapshots in redis and writes them back to
// the exam rows in the background.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

// Draft is the latest editor snapshot of one exam
type Draft struct {
	Title      string            `json:"title"`
	Components models.Components `json:"components"`
	SavedAt    time.Time         `json:"savedAt"`
}

// DraftStore keeps one draft per user and exam. The last write wins.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewDraftStore creates a DraftStore whose entries expire after ttl
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl, now: time.Now}
}

// Key is the redis key of a draft
func Key(userID, examID string) string {
	return "draft:" + userID + ":" + examID
}

// Save stores a snapshot and returns it stamped with its save time
func (s *DraftStore) Save(ctx context.Context, userID, examID, title string, components models.Components) (*Draft, error) {
	if components == nil {
		components = models.Components{}
	}
	draft := &Draft{Title: title, Components: components, SavedAt: s.now().UTC()}
	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, Key(userID, examID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// Load returns the stored draft or ErrDraftNotFound
func (s *DraftStore) Load(ctx context.Context, userID, examID string) (*Draft, error) {
	data, err := s.client.Get(ctx, Key(userID, examID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// Delete drops a draft, a missing one is not an error
func (s *DraftStore) Delete(ctx context.Context, userID, examID string) error {
	if err := s.client.Del(ctx, Key(userID, examID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
