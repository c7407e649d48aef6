package testutils

import (
	"context"
	"sync"

	"github.com/ahrav/go-quorum/internal/domain"
	"github.com/ahrav/go-quorum/internal/ports"
)

// LifecycleRecorder implements ports.ContentLifecycle by recording the
// decisions it receives, for asserting publish/reject side effects.
type LifecycleRecorder struct {
	mu        sync.Mutex
	Published []domain.Decision
	Rejected  []domain.Decision

	// Err, when set, is returned from every call.
	Err error
}

var _ ports.ContentLifecycle = (*LifecycleRecorder)(nil)

// MarkPublished records a publish decision.
func (l *LifecycleRecorder) MarkPublished(ctx context.Context, unit *domain.ContentUnit, decision domain.Decision) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	unit.Status = domain.ContentPublished
	l.Published = append(l.Published, decision)
	return nil
}

// MarkRejected records a reject decision.
func (l *LifecycleRecorder) MarkRejected(ctx context.Context, unit *domain.ContentUnit, decision domain.Decision) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	unit.Status = domain.ContentRejected
	l.Rejected = append(l.Rejected, decision)
	return nil
}
