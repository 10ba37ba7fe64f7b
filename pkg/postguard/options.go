package postguard

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "file", "redis" or "memory"
	path     string
	addrs    []string
	password string
	key      string

	kafkaBrokers []string
	kafkaTopic   string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFile keeps the content index in a JSON file at path.
func WithFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "file"
		c.path = path
	})
}

// WithRedis keeps the content index as a RedisJSON document.
// The server needs the RedisJSON module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisKey overrides the key of the index document. Default: postguard:index.
func WithRedisKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.key = key
	})
}

// WithMemory keeps the content index in memory (tests, dry runs).
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithKafka publishes a post.accepted event for every committed post.
func WithKafka(brokers []string, topic string) Option {
	return optionFunc(func(c *clientConfig) {
		c.kafkaBrokers = brokers
		c.kafkaTopic = topic
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations,
// verdicts, committed posts) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
