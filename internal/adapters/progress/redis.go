package progress

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
)

// DefaultKeyPrefix namespaces progress hashes in Redis.
const DefaultKeyPrefix = "doc2code:progress:"

const (
	fieldCurrent = "current"
	fieldTotal   = "total"
	fieldStatus  = "status"
)

// RedisStore implements ProgressStorePort on Redis hashes so that several
// server instances share session progress.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed store. A zero ttl leaves keys without
// expiry.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Set writes the session hash and refreshes its expiry in one transaction.
func (s *RedisStore) Set(ctx context.Context, sessionID string, p progress.Progress) error {
	if sessionID == "" {
		return errors.Validation(errors.ErrSessionIDRequired)
	}

	p = p.Normalize()
	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldCurrent, p.Current,
			fieldTotal, p.Total,
			fieldStatus, string(p.Status),
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return errors.NewError(errors.CodeProvider, "failed to store progress", err)
	}
	return nil
}

// Get reads the session hash; a missing key reports progress.Idle().
func (s *RedisStore) Get(ctx context.Context, sessionID string) (progress.Progress, error) {
	if sessionID == "" {
		return progress.Progress{}, errors.Validation(errors.ErrSessionIDRequired)
	}

	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return progress.Progress{}, errors.NewError(errors.CodeProvider, "failed to load progress", err)
	}
	if len(fields) == 0 {
		return progress.Idle(), nil
	}

	current, err := strconv.Atoi(fields[fieldCurrent])
	if err != nil {
		return progress.Progress{}, fmt.Errorf("corrupt progress field %q: %w", fieldCurrent, err)
	}
	total, err := strconv.Atoi(fields[fieldTotal])
	if err != nil {
		return progress.Progress{}, fmt.Errorf("corrupt progress field %q: %w", fieldTotal, err)
	}

	return progress.Progress{
		Current: current,
		Total:   total,
		Status:  progress.Status(fields[fieldStatus]),
	}.Normalize(), nil
}

var _ ports.ProgressStorePort = (*RedisStore)(nil)
