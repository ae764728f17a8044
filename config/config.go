package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Port         int
	ReadTimeout  int
	WriteTimeout int
	Env          string

	// Per-connection request parsing limits, passed through to
	// http.Config when the engine is built.
	BufferSize        int
	MaxBodySize       int
	MaxHeaderCount    int
	MaxQueryCount     int
	MaxParamCount     int
	ReadHeaderTimeout int
}

// New loads configuration from flags (and potentially env vars).
func New() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	flag.IntVar(&cfg.ReadTimeout, "read-timeout", 10, "HTTP read timeout (seconds)")
	flag.IntVar(&cfg.WriteTimeout, "write-timeout", 30, "HTTP write timeout (seconds)")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development/production)")

	flag.IntVar(&cfg.BufferSize, "buffer-size", 32*1024, "per-connection request buffer size (bytes)")
	flag.IntVar(&cfg.MaxBodySize, "max-body-size", 1<<20, "maximum request body size (bytes)")
	flag.IntVar(&cfg.MaxHeaderCount, "max-header-count", 32, "maximum number of request headers")
	flag.IntVar(&cfg.MaxQueryCount, "max-query-count", 32, "maximum number of query parameters")
	flag.IntVar(&cfg.MaxParamCount, "max-param-count", 10, "maximum number of path parameters")
	flag.IntVar(&cfg.ReadHeaderTimeout, "read-header-timeout", 0, "header read deadline in milliseconds (0 disables it)")

	flag.Parse()

	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}

	return cfg
}
