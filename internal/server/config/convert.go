package config

import (
	"github.com/yndnr/miniredis-go/internal/server/redisserver"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

// RedisServer returns the Redis server runtime configuration.
func (c *ServerConfig) RedisServer() *redisserver.Config {
	return &redisserver.Config{
		Address:        c.Server.Redis.Addr,
		ReadBufferSize: c.Server.Redis.ReadBufferSize,
		RateLimit:      c.Server.Redis.RateLimit,
		MaxConns:       c.Server.Redis.MaxConns,
	}
}

// Logger returns the logger configuration.
func (c *ServerConfig) Logger() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}
