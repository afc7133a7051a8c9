package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}
	if cfg.Redis.ReadBufferSize <= 0 {
		return errors.New("server.redis.read_buffer_size must be positive")
	}
	if cfg.Redis.RateLimit < 0 {
		return errors.New("server.redis.rate_limit must not be negative")
	}
	if cfg.Redis.MaxConns < 0 {
		return errors.New("server.redis.max_conns must not be negative")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}

	if cfg.HTTP.Addr != "" {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
		if cfg.HTTP.Addr == cfg.Redis.Addr {
			return fmt.Errorf("server.http.addr conflicts with server.redis.addr (%s)", cfg.HTTP.Addr)
		}
	}
	for _, entry := range cfg.HTTP.AllowList {
		if err := verifyACLEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console", "zap":
	default:
		return fmt.Errorf("log.format %q is not one of json, text, zap", cfg.Format)
	}
	if cfg.File != "" && cfg.MaxSizeMB <= 0 {
		return errors.New("log.max_size_mb must be positive when log.file is set")
	}
	return nil
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s %q: %w", name, addr, err)
	}
	return nil
}

func verifyACLEntry(entry string) error {
	if strings.Contains(entry, "/") {
		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("server.http.allow_list entry %q: %w", entry, err)
		}
		return nil
	}
	if net.ParseIP(entry) == nil {
		return fmt.Errorf("server.http.allow_list entry %q is not an IP or CIDR", entry)
	}
	return nil
}
