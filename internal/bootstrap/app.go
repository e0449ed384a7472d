package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"usersvc/internal/config"
	"usersvc/internal/model"
	mysqlClient "usersvc/internal/platform/mysql"
	rabbitmqClient "usersvc/internal/platform/rabbitmq"
	redisClient "usersvc/internal/platform/redis"
	"usersvc/internal/ratelimit"
	"usersvc/internal/repository"
	"usersvc/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Limiter     ratelimit.Admitter
	AuditWorker *worker.AuditWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.AuditEvent{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	auditRepo := repository.NewAuditEventRepository(mysqlDB)
	auditWorker := worker.NewAuditWorker(mqConn, auditRepo, cfg.RabbitMQ.UserEventsQueue)
	if err := auditWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Limiter:     newLimiter(cfg, redisCli),
		AuditWorker: auditWorker,
		StartedAt:   time.Now(),
	}, nil
}

func newLimiter(cfg *config.Config, redisCli *redis.Client) ratelimit.Admitter {
	rules := ratelimit.Rules{
		Default: ratelimit.Rule{
			PerMinute: cfg.RateLimit.DefaultPerMinute,
			Burst:     cfg.RateLimit.DefaultBurst,
		},
		PerRoute: map[string]ratelimit.Rule{
			"POST /users": {
				PerMinute: cfg.RateLimit.CreateUsersPerMinute,
				Burst:     cfg.RateLimit.CreateUsersBurst,
			},
			"GET /users": {
				PerMinute: cfg.RateLimit.ListUsersPerMinute,
				Burst:     cfg.RateLimit.ListUsersBurst,
			},
		},
	}

	if cfg.RateLimit.Backend == "redis" {
		return ratelimit.NewRedisLimiter(redisCli, rules)
	}
	return ratelimit.NewMemoryLimiter(rules)
}

func (a *App) Close() error {
	var closeErr error
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if ml, ok := a.Limiter.(*ratelimit.MemoryLimiter); ok {
		ml.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
