// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package redis connects the Minbar session store.

Redis holds nothing but login sessions: one record per session ID plus a per-user set
used to sign a member out everywhere after a role change or an explicit "log out all".
Losing Redis logs everyone out but loses no community data, so the pool is kept small
and every command is short-lived.
*/
package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Settings configures the session-store connection.
type Settings struct {
	URL string

	// PoolSize bounds concurrent connections. Zero selects [DefaultPoolSize].
	PoolSize int

	// CommandTimeout bounds every command including Ping. Zero selects [DefaultCommandTimeout].
	CommandTimeout time.Duration
}

const (
	DefaultPoolSize       = 10
	DefaultCommandTimeout = 2 * time.Second

	dialTimeout = 3 * time.Second
)

// ErrNoURL is returned when [Settings.URL] is empty.
var ErrNoURL = errors.New("redis: session store URL is empty")

// options resolves settings into go-redis options, filling defaults.
func (settings Settings) options() (*redis.Options, error) {
	if settings.URL == "" {
		return nil, ErrNoURL
	}

	options, err := redis.ParseURL(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	poolSize := settings.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	timeout := settings.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	options.PoolSize = poolSize
	options.MinIdleConns = max(1, poolSize/5)
	options.MaxIdleConns = max(1, poolSize/2)
	options.DialTimeout = dialTimeout
	options.ReadTimeout = timeout
	options.WriteTimeout = timeout
	return options, nil
}

/*
NewClient opens the session-store connection and verifies it with a ping.

Parameters:
  - context: bounds the initial ping
  - settings: Settings
  - logger: *slog.Logger

Returns:
  - *redis.Client: ready for [session.NewRedisBackend]
  - error: invalid URL or unreachable server
*/
func NewClient(context stdctx.Context, settings Settings, logger *slog.Logger) (*redis.Client, error) {
	options, err := settings.options()
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("session_store_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies the session store answers within the read timeout.
func Ping(context stdctx.Context, client *redis.Client) error {
	timeout := client.Options().ReadTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	pingCtx, cancel := stdctx.WithTimeout(context, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: session store unreachable: %w", err)
	}
	return nil
}

// HealthCheck adapts [Ping] to the readiness check signature.
func HealthCheck(client *redis.Client) func(stdctx.Context) error {
	return func(context stdctx.Context) error {
		return Ping(context, client)
	}
}
