package ports

import (
	"context"

	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
)

// ProgressStorePort records advisory progress for generation sessions.
// Get returns progress.Idle() for unknown sessions.
type ProgressStorePort interface {
	Set(ctx context.Context, sessionID string, p progress.Progress) error
	Get(ctx context.Context, sessionID string) (progress.Progress, error)
}
