/*
Package fast-server provides a high-performance, zero-allocation HTTP/1.x server framework for Go.

Fast-Server parses requests off a static per-connection buffer, borrows headers,
query values and path parameters straight out of it, and pools that buffer across
a connection's whole pipelined lifetime rather than allocating per request.

Features

  - Buffer-borrowing request parsing: header and query slices borrow from a static buffer
  - Goroutine-per-connection concurrency: each connection owns one RequestState exclusively
  - HTTP/1.1 pipelining: leftover bytes from one request feed the next Parse call
  - Advanced routing: Radix tree router
  - Lock-free pooling: CAS-based RequestState pool, smart context pool, GC tuning
  - Observability: built-in performance monitoring and eBPF-style tracing
  - Middleware pipeline: flexible middleware system
  - Body binding: JSON/msgpack/protobuf codecs via core/rpc/codec
  - CPU feature detection: AVX2/NEON checks gate the path-comparison and byte-scan tiers

Quick Start

Basic usage example:

package main

import (
    "github.com/searchktools/fast-server/app"
    "github.com/searchktools/fast-server/config"
    "github.com/searchktools/fast-server/core/http"
)

func main() {
    cfg := config.New()
    application := app.New(cfg)

    engine := application.Engine()
    engine.GET("/hello", func(ctx http.Context) {
        ctx.String(200, "Hello, World!")
    })

    engine.GET("/json", func(ctx http.Context) {
        ctx.JSON(200, map[string]string{
            "message": "Fast Server",
            "status":  "running",
        })
    })

    application.Run()
}

Modules

The framework is organized into several modules:

  - app: Application lifecycle management
  - config: Configuration loading and management
  - core: HTTP server core engine (goroutine-per-connection)
  - core/http: request parsing, request/response context, pooling primitives
  - core/router: radix tree routing
  - core/middleware: middleware pipeline
  - core/pools: lock-free RequestState pool, smart context pool, worker pool, GC tuning
  - core/optimize: CPU-feature-dispatched path comparison
  - core/sendfile: cached zero-copy file serving
  - core/rpc/codec: JSON/msgpack/protobuf body codecs
  - core/observability: monitoring and eBPF-style tracing

For more information, see https://github.com/searchktools/fast-server
*/
package fastserver
