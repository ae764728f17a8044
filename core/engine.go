package core

import (
	"errors"
	"log"
	"net"
	"runtime"
	"time"

	"github.com/searchktools/fast-server/core/http"
	"github.com/searchktools/fast-server/core/middleware"
	"github.com/searchktools/fast-server/core/observability"
	"github.com/searchktools/fast-server/core/pools"
	"github.com/searchktools/fast-server/core/router"
)

// errAborted marks a handler invocation that called ctx.Abort, so the
// observatory's handler trace records it as an error without a response
// body round trip through the handler's own return value (handlers don't
// return errors).
var errAborted = errors.New("handler aborted")

// HandlerFunc defines the handler function type (accepts http.Context interface)
type HandlerFunc func(ctx http.Context)

// Engine is a high-performance HTTP engine: one goroutine per connection,
// each connection owns exactly one RequestState for its lifetime and parses
// requests off it sequentially, satisfying the single-thread-per-connection
// requirement the old epoll state machine couldn't give without multiplexing
// reads and writes onto a shared loop.
type Engine struct {
	router *router.RadixRouter

	cfg http.Config

	statePool   *pools.Pool[http.RequestState]
	contextPool *pools.SmartPool
	workerPool  *pools.WorkerPool // ambient; constructed here, nothing submits tasks to it
	observatory *observability.Observatory
	pipeline    *middleware.Pipeline

	idleTimeout time.Duration

	listener net.Listener
}

// NewEngine creates a new engine instance using cfg to size every
// connection's RequestState (buffer, body ceiling, container capacities).
func NewEngine(cfg http.Config) *Engine {
	e := &Engine{
		router:      router.NewRadixRouter(),
		cfg:         cfg,
		idleTimeout: 5 * time.Second,
		pipeline:    middleware.NewPipeline(),
	}

	pools.OptimizeForHighThroughput()

	e.statePool = pools.NewPool(256, func() *http.RequestState {
		return http.NewRequestState(cfg)
	})

	e.contextPool = pools.NewSmartPool(pools.SmartPoolConfig{
		New: func() any {
			return &http.FDContext{}
		},
		Reset: func(obj any) {
			if ctx, ok := obj.(*http.FDContext); ok {
				ctx.Reset(nil, nil)
			}
		},
		WarmupSize:    256,
		TargetHitRate: 0.95,
	})
	e.contextPool.StartAutoOptimize(30 * time.Second)

	e.workerPool = pools.NewWorkerPool(runtime.NumCPU())
	e.observatory = observability.NewObservatory()

	log.Printf("engine: request state pool capacity=256 buffer=%dB max_body=%dB", cfg.BufferSize, cfg.MaxBodySize)
	log.Printf("engine: context pool 256 warmup, 95%% target hit rate")
	log.Printf("engine: worker pool %d workers", runtime.NumCPU())

	return e
}

// Use appends a middleware to the engine's pipeline, run ahead of every
// matched route handler in registration order.
func (e *Engine) Use(handler middleware.HandlerFunc) {
	e.pipeline.Use(handler)
}

// GET registers a GET route
func (e *Engine) GET(path string, handler HandlerFunc) {
	e.router.Add("GET", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// POST registers a POST route
func (e *Engine) POST(path string, handler HandlerFunc) {
	e.router.Add("POST", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// PUT registers a PUT route
func (e *Engine) PUT(path string, handler HandlerFunc) {
	e.router.Add("PUT", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// DELETE registers a DELETE route
func (e *Engine) DELETE(path string, handler HandlerFunc) {
	e.router.Add("DELETE", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// PATCH registers a PATCH route
func (e *Engine) PATCH(path string, handler HandlerFunc) {
	e.router.Add("PATCH", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// HEAD registers a HEAD route
func (e *Engine) HEAD(path string, handler HandlerFunc) {
	e.router.Add("HEAD", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// OPTIONS registers an OPTIONS route
func (e *Engine) OPTIONS(path string, handler HandlerFunc) {
	e.router.Add("OPTIONS", path, func(ctx any) { handler(ctx.(http.Context)) })
}

// Run starts the server, blocking until the listener fails.
func (e *Engine) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	e.listener = ln
	defer ln.Close()

	log.Printf("server listening on %s", addr)
	log.Printf("goroutine-per-connection, lock-free request state pool")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			tcpConn.SetNoDelay(true)
			tcpConn.SetKeepAlive(true)
			tcpConn.SetKeepAlivePeriod(30 * time.Second)
		}
		go e.handleConnection(conn)
	}
}

// handleConnection services one connection end to end: it owns a single
// RequestState for as many pipelined requests as the connection sends,
// parsing, dispatching, and draining each in turn before reusing the state
// for the next.
func (e *Engine) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}

	parser := http.NewParser()
	state := e.statePool.Acquire()
	defer func() {
		state.Reset()
		e.statePool.Release(state)
	}()

	var prefill []byte
	for {
		req, err := parser.Parse(state, conn, remote, prefill)
		if err != nil {
			e.sendError(conn, 400, "Bad Request")
			return
		}

		e.dispatch(conn, req)

		if err := req.Drain(); err != nil {
			return
		}
		if !req.CanKeepAlive() {
			return
		}

		prefill = req.Leftover()
		state.Reset()
	}
}

// dispatch finds the route for req and runs its handler through an
// FDContext, recycling the context afterward.
func (e *Engine) dispatch(conn net.Conn, req *http.Request) {
	h, params := e.router.Find(req.Method(), req.URL().Path())
	if h == nil {
		e.sendError(conn, 404, "Not Found")
		return
	}

	ctx := e.contextPool.Get().(*http.FDContext)
	ctx.Reset(conn, req)
	for k, v := range params {
		ctx.SetParam(k, v)
	}

	path := req.URL().Path()
	e.observatory.TraceHandler(path, func() error {
		e.pipeline.Execute(ctx, func(*http.FDContext) { h(ctx) })
		if ctx.IsAborted() {
			return errAborted
		}
		return nil
	})

	e.contextPool.Put(ctx)
}

// Addr returns the listener's bound address. It is nil until Run has
// accepted its listener, which callers that started Run in a goroutine (as
// tests do) must poll for.
func (e *Engine) Addr() net.Addr {
	if e.listener == nil {
		return nil
	}
	return e.listener.Addr()
}

// Report returns a human-readable observability snapshot: detected
// bottlenecks, eBPF-style syscall/network trace summaries, and current
// runtime memory stats.
func (e *Engine) Report() string {
	return e.observatory.GetFullReport()
}

// sendError writes a minimal error response directly to conn.
func (e *Engine) sendError(conn net.Conn, code int, message string) {
	response := []byte("HTTP/1.1 ")
	response = appendInt(response, code)
	response = append(response, ' ')
	response = append(response, message...)
	response = append(response, "\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"...)
	conn.Write(response)
}

// appendInt appends an integer to a byte slice.
func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}

	if i < 0 {
		b = append(b, '-')
		i = -i
	}

	var digits [20]byte
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}

	for n > 0 {
		n--
		b = append(b, digits[n])
	}

	return b
}
