package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchktools/fast-server/config"
	"github.com/searchktools/fast-server/core"
	"github.com/searchktools/fast-server/core/http"
)

// App is the application instance using a high-performance zero-allocation engine
type App struct {
	cfg    *config.Config
	engine *core.Engine
}

// New creates an application instance, translating the flag-backed
// config.Config into the http.Config every connection's RequestState is
// sized from.
func New(cfg *config.Config) *App {
	engine := core.NewEngine(toHTTPConfig(cfg))

	return &App{
		cfg:    cfg,
		engine: engine,
	}
}

func toHTTPConfig(cfg *config.Config) http.Config {
	httpCfg := http.DefaultConfig()
	if cfg.BufferSize > 0 {
		httpCfg.BufferSize = cfg.BufferSize
	}
	if cfg.MaxBodySize > 0 {
		httpCfg.MaxBodySize = cfg.MaxBodySize
	}
	if cfg.MaxHeaderCount > 0 {
		httpCfg.MaxHeaderCount = cfg.MaxHeaderCount
	}
	if cfg.MaxQueryCount > 0 {
		httpCfg.MaxQueryCount = cfg.MaxQueryCount
	}
	if cfg.MaxParamCount > 0 {
		httpCfg.MaxParamCount = cfg.MaxParamCount
	}
	httpCfg.ReadHeaderTimeout = cfg.ReadHeaderTimeout
	return httpCfg
}

// Engine returns the underlying engine for route registration
func (a *App) Engine() *core.Engine {
	return a.engine
}

// NewWithEngine creates an application instance with a pre-configured engine
func NewWithEngine(cfg *config.Config, engine *core.Engine) *App {
	return &App{
		cfg:    cfg,
		engine: engine,
	}
}

// Run starts the application
func (a *App) Run() {
	// Graceful shutdown
	go a.awaitSignal()

	addr := fmt.Sprintf(":%d", a.cfg.Port)
	log.Printf("🚀 High-Performance HTTP Server starting on port %d [%s]", a.cfg.Port, a.cfg.Env)
	log.Printf("⚡ goroutine-per-connection engine, lock-free request state pool")

	if err := a.engine.Run(addr); err != nil {
		log.Fatalf("Server startup failed: %v", err)
	}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Signal received: %v. Shutting down...", sig)

	// TODO: Implement graceful shutdown
	os.Exit(0)
}
