package clanrouter

import (
	"context"
	"log/slog"
	"time"

	clanhandlers "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/handlers"
	leaderboardevents "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/rhythm-ranking/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"
)

// ClanRouter registers the clan handlers on a shared watermill router.
type ClanRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer
}

func NewClanRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
) *ClanRouter {
	return &ClanRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure registers all module-specific event handlers.
func (r *ClanRouter) Configure(ctx context.Context, handlers clanhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Clan Event Handlers")

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, leaderboardevents.ScoreSubmittedV1, handlers.HandleScoreSubmitted)
	registerHandler(deps, leaderboardevents.ScoreRemovedV1, handlers.HandleScoreRemoved)

	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "clan." + topic
	h := deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(handlerName, deps.logger, deps.tracer, handler),
	)
	// Lock contention and serialization failures are worth a quick retry.
	h.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		Logger:          watermill.NewSlogLogger(deps.logger),
	}.Middleware)
}

// Close stops the router.
func (r *ClanRouter) Close() error {
	return r.Router.Close()
}
