package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/pkg/logger"
	redisutil "github.com/ikkim/directorio-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

var ErrDraftNotFound = errors.New("wizard session not found")

// DraftStore keeps wizard sessions between requests. Loaded sessions are
// validated before they are returned.
type DraftStore interface {
	Save(ctx context.Context, session *model.WizardSession) error
	Load(ctx context.Context, id string) (*model.WizardSession, error)
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle since before cutoff and returns how many went.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

const draftKeyPrefix = "wizard:session:"

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore stores sessions as JSON with a sliding TTL.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{client: client, ttl: ttl}
}

func (s *redisDraftStore) Save(ctx context.Context, session *model.WizardSession) error {
	return redisutil.SetJSON(ctx, s.client, draftKeyPrefix+session.ID, session, s.ttl)
}

func (s *redisDraftStore) Load(ctx context.Context, id string) (*model.WizardSession, error) {
	var session model.WizardSession
	if err := redisutil.GetJSON(ctx, s.client, draftKeyPrefix+id, &session); err != nil {
		if errors.Is(err, redisutil.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	if err := session.Validate(); err != nil {
		logger.Warn("Discarding invalid wizard session", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
		_ = s.client.Del(ctx, draftKeyPrefix+id).Err()
		return nil, ErrDraftNotFound
	}
	return &session, nil
}

func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id).Err()
}

// Sweep is a no-op; redis expires keys on its own.
func (s *redisDraftStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

type memoryDraftStore struct {
	mu       sync.Mutex
	sessions map[string]model.WizardSession
}

// NewMemoryDraftStore keeps sessions in process memory.
func NewMemoryDraftStore() DraftStore {
	return &memoryDraftStore{sessions: make(map[string]model.WizardSession)}
}

func (s *memoryDraftStore) Save(ctx context.Context, session *model.WizardSession) error {
	if session.ID == "" {
		return fmt.Errorf("%w: missing id", model.ErrInvalidWizardSession)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (s *memoryDraftStore) Load(ctx context.Context, id string) (*model.WizardSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	if err := session.Validate(); err != nil {
		return nil, ErrDraftNotFound
	}
	out := cloneSession(session)
	return &out, nil
}

func (s *memoryDraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryDraftStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// cloneSession copies the slices and pointers a caller could mutate.
func cloneSession(in model.WizardSession) model.WizardSession {
	out := in
	if in.OwnerID != nil {
		v := *in.OwnerID
		out.OwnerID = &v
	}
	if in.CompanyID != nil {
		v := *in.CompanyID
		out.CompanyID = &v
	}
	if in.Draft.FoundedYear != nil {
		v := *in.Draft.FoundedYear
		out.Draft.FoundedYear = &v
	}
	if in.Draft.SocialLinks != nil {
		out.Draft.SocialLinks = append([]model.SocialLinkEntry(nil), in.Draft.SocialLinks...)
	}
	return out
}
