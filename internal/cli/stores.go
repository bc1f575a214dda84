package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/config"
	"quiz-storefront/internal/infra/jsonfile"
	"quiz-storefront/internal/infra/memory"
	"quiz-storefront/internal/infra/postgres"
	redisstore "quiz-storefront/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend holds the opened stores plus whatever connections must be closed on exit.
type backend struct {
	stores app.Stores
	redis  *redis.Client
	pool   *pgxpool.Pool
}

func (b *backend) Close() {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackend opens the configured document stores. A Redis client is also opened for the
// quiz cache whenever an address is configured, whatever the storage backend.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	switch cfg.Storage.Backend {
	case config.BackendFile:
		b.stores = app.Stores{
			Quizzes:     jsonfile.NewQuizStore(cfg.Storage.DataDir),
			Submissions: jsonfile.NewSubmissionStore(cfg.Storage.DataDir),
			Coupons:     jsonfile.NewCouponStore(cfg.Storage.DataDir),
		}
	case config.BackendMemory:
		quizzes, submissions, coupons := memory.NewStores()
		b.stores = app.Stores{Quizzes: quizzes, Submissions: submissions, Coupons: coupons}
	case config.BackendRedis:
		if b.redis == nil {
			return nil, fmt.Errorf("storage backend redis needs redis.addr or REDIS_ADDR")
		}
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		quizzes, submissions, coupons := redisstore.NewStores(b.redis, cfg.Redis.Prefix)
		b.stores = app.Stores{Quizzes: quizzes, Submissions: submissions, Coupons: coupons}
	case config.BackendPostgres:
		if cfg.Postgres.URL == "" {
			b.Close()
			return nil, fmt.Errorf("storage backend postgres needs postgres.url or DATABASE_URL")
		}
		if _, err := postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
		quizzes, submissions, coupons := postgres.NewStores(pool)
		b.stores = app.Stores{Quizzes: quizzes, Submissions: submissions, Coupons: coupons}
	default:
		b.Close()
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	log.Printf("using %s storage", cfg.Storage.Backend)
	return b, nil
}

// quizRepository puts an answer-key cache in front of the quiz store.
func (b *backend) quizRepository(cfg config.Config) app.QuizRepository {
	ttl := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuizRepository(b.redis, b.stores.Quizzes, cfg.Redis.Prefix, config.TTLDuration(cfg.Redis.TTL, ttl))
	}
	return memory.NewQuizRepository(b.stores.Quizzes, ttl)
}
