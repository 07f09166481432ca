// Package progress provides progress store adapters for generation sessions.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
)

// MemoryStore implements ProgressStorePort using an in-memory map.
// Entries expire ttl after their last update; a zero ttl keeps them forever.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	closeOnce     sync.Once
}

type memoryEntry struct {
	progress  progress.Progress
	updatedAt time.Time
}

// NewMemoryStore creates an in-memory store. When cleanupPeriod is positive a
// background goroutine drops expired sessions; call Close to stop it.
func NewMemoryStore(ttl, cleanupPeriod time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	if ttl > 0 && cleanupPeriod > 0 {
		s.cleanupTicker = time.NewTicker(cleanupPeriod)
		go s.cleanupLoop()
	}

	return s
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.Cleanup()
		case <-s.stopCleanup:
			s.cleanupTicker.Stop()
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	if s.cleanupTicker != nil {
		s.closeOnce.Do(func() {
			close(s.stopCleanup)
		})
	}
	return nil
}

// Set records progress for a session, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, sessionID string, p progress.Progress) error {
	if sessionID == "" {
		return errors.Validation(errors.ErrSessionIDRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = memoryEntry{progress: p.Normalize(), updatedAt: time.Now()}
	return nil
}

// Get returns the last recorded progress, or progress.Idle() for unknown or
// expired sessions.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (progress.Progress, error) {
	if sessionID == "" {
		return progress.Progress{}, errors.Validation(errors.ErrSessionIDRequired)
	}

	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(entry, time.Now()) {
		return progress.Idle(), nil
	}
	return entry.progress, nil
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.updatedAt) > s.ttl
}

var _ ports.ProgressStorePort = (*MemoryStore)(nil)
