package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/config"
	dbRedis "github.com/techlog/postguard/internal/db/redis"
	domindex "github.com/techlog/postguard/internal/domain/index"
	indexrepo "github.com/techlog/postguard/internal/repository/index"
	kafkaTransport "github.com/techlog/postguard/internal/transport/kafka"
)

// indexStore is what the use cases need from any index backend.
type indexStore interface {
	Load(ctx context.Context) (domindex.Index, error)
	Save(ctx context.Context, x *domindex.Index) error
	Ping(ctx context.Context) error
}

// openIndex builds the configured index backend. The returned close func is never nil.
func openIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (indexStore, func(), error) {
	switch cfg.Index.Driver {
	case config.DriverFile:
		return indexrepo.NewFileStore(cfg.Index.Path, logger), func() {}, nil
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating redis store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		return indexrepo.NewRedisStore(store, cfg.Index.RedisKey, logger), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index driver %q", cfg.Index.Driver)
	}
}

// openEvents builds the accepted-post publisher, or returns nil when events are disabled.
func openEvents(cfg *config.Config, logger *zap.Logger) (*kafkaTransport.Publisher, error) {
	if !cfg.Events.Enabled() {
		return nil, nil
	}
	p, err := kafkaTransport.NewPublisher(kafkaTransport.Config{
		Brokers: cfg.Events.Brokers,
		Topic:   cfg.Events.Topic,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}
	return p, nil
}
