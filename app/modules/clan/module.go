package clan

import (
	"context"
	"fmt"

	clanservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/application"
	clanhandlers "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/handlers"
	clandb "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/repositories"
	clanrouter "github.com/Black-And-White-Club/rhythm-ranking/app/modules/clan/infrastructure/router"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the clan module.
type Module struct {
	ClanService clanservice.Service
	ClanRouter  *clanrouter.ClanRouter
}

// NewClanModule creates the clan module. A nil router skips handler registration.
func NewClanModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	subscriber message.Subscriber,
	publisher message.Publisher,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger.With(attr.String("module", "clan"))

	service := clanservice.NewClanService(
		clandb.NewRepository(db),
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		clanservice.Options{
			PageSize:       cfg.Jobs.PageSize,
			PagesPerSecond: cfg.Jobs.PagesPerSecond,
		},
	)

	module := &Module{ClanService: service}
	if router == nil {
		return module, nil
	}

	module.ClanRouter = clanrouter.NewClanRouter(logger, router, subscriber, publisher, obs.Tracer)
	if err := module.ClanRouter.Configure(ctx, clanhandlers.NewClanHandlers(service, logger, obs.Tracer)); err != nil {
		return nil, fmt.Errorf("failed to configure clan router: %w", err)
	}
	return module, nil
}
