package leaderboardrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	leaderboardhandlers "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingQueue struct {
	mu       sync.Mutex
	attempts []leaderboarddomain.Attempt
}

func (q *recordingQueue) Enqueue(_ context.Context, a leaderboarddomain.Attempt) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.attempts = append(q.attempts, a)
	return nil
}

func (q *recordingQueue) snapshot() []leaderboarddomain.Attempt {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]leaderboarddomain.Attempt(nil), q.attempts...)
}

func TestLeaderboardRouter_DeliversAttempts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wmLogger := watermill.NewSlogLogger(logger)
	tracer := noop.NewTracerProvider().Tracer("test")

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	defer pubSub.Close()

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	queue := &recordingQueue{}
	lr := NewLeaderboardRouter(logger, router, pubSub, pubSub, tracer)
	require.NoError(t, lr.Configure(context.Background(), leaderboardhandlers.NewLeaderboardHandlers(queue, logger, tracer)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	attempt := leaderboarddomain.Attempt{LeaderboardID: "lb-9", PlayerID: "p-1", Score: 4242, Type: "pause"}
	body, err := json.Marshal(leaderboardevents.AttemptRecordedPayloadV1{Attempt: attempt})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(leaderboardevents.AttemptRecordedV1, message.NewMessage(watermill.NewUUID(), body)))

	require.Eventually(t, func() bool { return len(queue.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, attempt, queue.snapshot()[0])

	require.NoError(t, lr.Close())
}
