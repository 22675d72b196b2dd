package leaderboardhandlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/statsqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestLeaderboardHandlers_HandleAttemptRecorded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	valid := leaderboarddomain.Attempt{
		LeaderboardID: "lb-1",
		PlayerID:      "76561198000000001",
		Score:         812345,
		Accuracy:      0.93,
		Type:          "fail",
	}

	tests := []struct {
		name      string
		payload   leaderboarddomain.Attempt
		enqueue   func(context.Context, leaderboarddomain.Attempt) error
		wantErr   error
		wantTrace []string
		wantQueue int
	}{
		{
			name:      "valid attempt is enqueued",
			payload:   valid,
			wantTrace: []string{"Enqueue"},
			wantQueue: 1,
		},
		{
			name: "attempt without player is dropped",
			payload: leaderboarddomain.Attempt{
				LeaderboardID: "lb-1",
				Score:         10,
			},
			wantTrace: []string{},
		},
		{
			name:    "full queue nacks the message",
			payload: valid,
			enqueue: func(context.Context, leaderboarddomain.Attempt) error {
				return statsqueue.ErrQueueFull
			},
			wantErr:   statsqueue.ErrQueueFull,
			wantTrace: []string{"Enqueue"},
		},
		{
			name:    "closed queue nacks the message",
			payload: valid,
			enqueue: func(context.Context, leaderboarddomain.Attempt) error {
				return statsqueue.ErrClosed
			},
			wantErr:   statsqueue.ErrClosed,
			wantTrace: []string{"Enqueue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewFakeAttemptQueue()
			queue.EnqueueFunc = tt.enqueue
			h := NewLeaderboardHandlers(queue, logger, tracer)

			results, err := h.HandleAttemptRecorded(context.Background(), &leaderboardevents.AttemptRecordedPayloadV1{Attempt: tt.payload})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Empty(t, results)
			assert.Equal(t, tt.wantTrace, queue.Trace())
			require.Len(t, queue.Enqueued, tt.wantQueue)
			if tt.wantQueue > 0 {
				assert.Equal(t, tt.payload, queue.Enqueued[0])
			}
		})
	}
}
