package leaderboardhandlers

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
)

// FakeAttemptQueue implements AttemptQueue for handler testing.
type FakeAttemptQueue struct {
	trace []string

	Enqueued    []leaderboarddomain.Attempt
	EnqueueFunc func(ctx context.Context, a leaderboarddomain.Attempt) error
}

var _ AttemptQueue = (*FakeAttemptQueue)(nil)

func NewFakeAttemptQueue() *FakeAttemptQueue {
	return &FakeAttemptQueue{trace: []string{}}
}

func (f *FakeAttemptQueue) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAttemptQueue) Trace() []string {
	return f.trace
}

func (f *FakeAttemptQueue) Enqueue(ctx context.Context, a leaderboarddomain.Attempt) error {
	f.record("Enqueue")
	if f.EnqueueFunc != nil {
		if err := f.EnqueueFunc(ctx, a); err != nil {
			return err
		}
	}
	f.Enqueued = append(f.Enqueued, a)
	return nil
}
