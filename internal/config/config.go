// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the API server and the lifecycle
// scheduler.
type Config struct {
	HTTPAddr        string
	MySQLDSN        string
	RedisAddr       string
	RedisPoolSize   int
	NATSURL         string
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:        getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/gamja?parseTime=true"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPoolSize:   atoienv("REDIS_POOL_SIZE", 100),
		NATSURL:         getenv("NATS_URL", "nats://localhost:4222"),
		SweepInterval:   durenvms("SWEEP_INTERVAL_MS", 10000),
		ShutdownTimeout: durenvms("SHUTDOWN_TIMEOUT_MS", 5000),
	}
}
