package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/mcq-client/internal/config"
	"github.com/stemsi/mcq-client/internal/quiz"
)

var (
	// ErrSessionNotFound is returned when no session is stored under an id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionConflict is returned when an update keeps losing to concurrent writers.
	ErrSessionConflict = errors.New("session changed concurrently")
)

// maxUpdateAttempts bounds optimistic retries of a Redis update.
const maxUpdateAttempts = 10

// UpdateFunc derives the next session from the stored one. A missing session is
// passed in as quiz.NewSession(id). Returning an error stores nothing.
type UpdateFunc func(cur quiz.Session) (quiz.Session, error)

// SessionRepository stores one quiz session per browser. Update runs fn and
// stores its result as one atomic step per session id.
type SessionRepository interface {
	Get(ctx context.Context, id string) (quiz.Session, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (quiz.Session, error)
}

// ────────────────────────────────────────────────────────────────────────────
// Redis
// ────────────────────────────────────────────────────────────────────────────

// RedisSessionRepository keeps sessions as JSON strings that expire after ttl.
type RedisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository creates a RedisSessionRepository.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

// Get loads a session. Returns ErrSessionNotFound if the key is missing or expired.
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (quiz.Session, error) {
	return decodeSession(r.rdb.Get(ctx, config.CacheKey.QuizSessionKey(id)))
}

// Update applies fn under WATCH on the session key. The write is discarded and
// fn rerun when another client changed the key in between.
func (r *RedisSessionRepository) Update(ctx context.Context, id string, fn UpdateFunc) (quiz.Session, error) {
	key := config.CacheKey.QuizSessionKey(id)

	var out quiz.Session
	txf := func(tx *redis.Tx) error {
		cur, err := decodeSession(tx.Get(ctx, key))
		if errors.Is(err, ErrSessionNotFound) {
			cur = quiz.NewSession(id)
		} else if err != nil {
			return err
		}

		next, err := fn(cur)
		out = next
		if err != nil {
			return err
		}

		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return out, err
		}
		return out, nil
	}
	return out, ErrSessionConflict
}

func decodeSession(cmd *redis.StringCmd) (quiz.Session, error) {
	raw, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.Session{}, ErrSessionNotFound
		}
		return quiz.Session{}, fmt.Errorf("get session: %w", err)
	}

	var s quiz.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return quiz.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// ────────────────────────────────────────────────────────────────────────────
// In-memory
// ────────────────────────────────────────────────────────────────────────────

type memoryEntry struct {
	session   quiz.Session
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory. Expired entries are
// invisible to Get and are dropped by Sweep.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository creates a MemorySessionRepository.
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (quiz.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok || r.expired(e) {
		return quiz.Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

// Update holds the write lock for the whole read-modify-write.
func (r *MemorySessionRepository) Update(_ context.Context, id string, fn UpdateFunc) (quiz.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := quiz.NewSession(id)
	if e, ok := r.sessions[id]; ok && !r.expired(e) {
		cur = e.session
	}

	next, err := fn(cur)
	if err != nil {
		return next, err
	}

	e := memoryEntry{session: next}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}
	r.sessions[id] = e
	return next, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *MemorySessionRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)
}
