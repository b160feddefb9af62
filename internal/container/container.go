// Package container wires the application graph. Each concern is provided by
// its own Package function so the server and consumer binaries can assemble
// only what they run.
package container

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/auth"
	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/handlers"
	"github.com/echess/club-api/internal/health"
	"github.com/echess/club-api/internal/middleware"
	"github.com/echess/club-api/internal/ratelimit"
	"github.com/echess/club-api/internal/ratings"
	"github.com/echess/club-api/internal/store"
)

type Options struct {
	Port             int    `default:"8000"                      help:"Port to listen on"                                  short:"p"`
	RedisAddr        string `default:"localhost:6379"            help:"Redis server address"                               short:"r"`
	PostgresURL      string `default:""                          help:"Postgres connection string; empty uses in-memory stores"`
	ProviderBaseURL  string `default:"https://api.chess.com/pub" help:"Rating provider base URL"`
	JWTSecret        string `default:"dev-secret-change-me"      help:"Secret for signing bearer tokens"`
	LogFormat        string `default:"console"                   enum:"console,json"                                       help:"Log format"`
	CacheTTLSeconds  int    `default:"300"                       help:"Rating cache TTL in seconds"`
	SyncDelayMillis  int    `default:"500"                       help:"Delay between provider calls during bulk sync, in milliseconds"`
	DefaultRateLimit int    `default:"30"                        help:"Default requests per minute per client"`
}

// Repositories bundles the persistence layer behind one provider so memory
// and Postgres implementations swap as a set.
type Repositories struct {
	Members     club.MemberRepository
	Accounts    club.AccountRepository
	Matches     club.MatchRepository
	Tournaments club.TournamentRepository
	News        club.NewsRepository
	Events      club.EventRepository
	Gallery     club.GalleryRepository
	Audit       club.AuditRepository
	ResetTokens club.ResetTokenRepository
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client shared by messaging and health.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool. Invoking it without a configured
// PostgresURL is an error; RepositoryPackage only reaches for it when one
// is set.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresURL == "" {
			return nil, errors.New("postgres url not configured")
		}

		return pgxpool.New(context.Background(), options.PostgresURL)
	})
}

// RepositoryPackage provides the repository set, backed by Postgres when a
// connection string is configured and by in-memory stores otherwise.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Repositories, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresURL == "" {
			return &Repositories{
				Members:     store.NewMemberMemoryStore(),
				Accounts:    store.NewAccountMemoryStore(),
				Matches:     store.NewMatchMemoryStore(),
				Tournaments: store.NewTournamentMemoryStore(),
				News:        store.NewNewsMemoryStore(),
				Events:      store.NewEventMemoryStore(),
				Gallery:     store.NewGalleryMemoryStore(),
				Audit:       store.NewAuditMemoryStore(),
				ResetTokens: store.NewResetTokenMemoryStore(),
			}, nil
		}

		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}

		return &Repositories{
			Members:     store.NewMemberPostgresStore(pool),
			Accounts:    store.NewAccountPostgresStore(pool),
			Matches:     store.NewMatchPostgresStore(pool),
			Tournaments: store.NewTournamentPostgresStore(pool),
			News:        store.NewNewsPostgresStore(pool),
			Events:      store.NewEventPostgresStore(pool),
			Gallery:     store.NewGalleryPostgresStore(pool),
			Audit:       store.NewAuditPostgresStore(pool),
			ResetTokens: store.NewResetTokenPostgresStore(pool),
		}, nil
	})
}

// RateLimitPackage provides the rate limit store.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*store.RateLimitMemoryStore, error) {
		return store.NewRateLimitMemoryStore(), nil
	})
}

// RatingsPackage provides the rating cache, provider client, and syncer.
func RatingsPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*store.RatingCacheMemoryStore, error) {
		return store.NewRatingCacheMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratings.Client, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		cacheStore := do.MustInvoke[*store.RatingCacheMemoryStore](i)

		ttl := time.Duration(options.CacheTTLSeconds) * time.Second
		cache := ratings.NewCache(cacheStore, ttl, logger)

		return ratings.NewClient(options.ProviderBaseURL, cache, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratings.Syncer, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*ratings.Client](i)
		repos := do.MustInvoke[*Repositories](i)

		delay := time.Duration(options.SyncDelayMillis) * time.Millisecond

		return ratings.NewSyncer(client, repos.Members, delay, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*store.Janitor, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		rateLimits := do.MustInvoke[*store.RateLimitMemoryStore](i)
		cacheStore := do.MustInvoke[*store.RatingCacheMemoryStore](i)

		// No quota or cache TTL here outlives an hour.
		return store.NewJanitor(store.DefaultSweepInterval, time.Hour, logger, rateLimits, cacheStore), nil
	})
}

// AuthPackage provides the token service.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.TokenService, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewTokenService(options.JWTSecret, auth.DefaultTokenTTL), nil
	})
}

// PublisherGroupPackage provides the audit publisher over Redis streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*audit.PublisherGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: redisClient,
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		return audit.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the audit recorder over Redis streams.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*audit.Recorder, error) {
		redisClient := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repos := do.MustInvoke[*Repositories](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: "audit-recorder",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		return audit.NewRecorder(subscriber, repos.Audit, logger), nil
	})
}

// HTTPPackage provides the router and the fully registered API.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		repos := do.MustInvoke[*Repositories](i)
		rateLimits := do.MustInvoke[*store.RateLimitMemoryStore](i)
		client := do.MustInvoke[*ratings.Client](i)
		syncer := do.MustInvoke[*ratings.Syncer](i)
		tokens := do.MustInvoke[*auth.TokenService](i)
		publisherGroup := do.MustInvoke[*audit.PublisherGroup](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		api := humachi.New(router, huma.DefaultConfig("Chess Club API", "1.0.0"))

		api.UseMiddleware(middleware.WithRequestMeta(api))
		api.UseMiddleware(middleware.RateLimiter(
			api,
			rateLimits,
			ratelimit.LimitConfig{Window: ratelimit.DefaultWindow, Max: int64(options.DefaultRateLimit)},
			logger,
		))

		publish := audit.NewPublishFunc(publisherGroup.Publisher())

		newResetToken, err := nanoid.Standard(32)
		if err != nil {
			return nil, err
		}

		h := &handlers.Handlers{
			Members:     handlers.NewMemberHandler(repos.Members, client, publish, logger),
			Ratings:     handlers.NewRatingHandler(client, syncer, repos.Members, logger),
			Auth:        handlers.NewAuthHandler(repos.Accounts, repos.ResetTokens, tokens, newResetToken, logger),
			Competition: handlers.NewCompetitionHandler(repos.Matches, repos.Tournaments, repos.Members, publish, logger),
			Content:     handlers.NewContentHandler(repos.News, repos.Events, repos.Gallery, publish, logger),
			Admin:       handlers.NewAdminHandler(repos.Members, repos.Matches, repos.Tournaments, repos.News, logger),
		}

		handlers.RegisterRoutes(api, tokens, h)

		var postgresChecker health.Checker
		if options.PostgresURL != "" {
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			postgresChecker = health.NewPostgresChecker(pool)
		}

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(redisClient), postgresChecker))

		return api, nil
	})
}
