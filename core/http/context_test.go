package http

import (
	"bytes"
	"net"
	"testing"
	"time"
)

// fakeConn is a minimal net.Conn backed by an in-memory buffer, just enough
// for exercising Context response writers without a real socket.
type fakeConn struct {
	buf bytes.Buffer
}

func (c *fakeConn) Read(b []byte) (int, error)         { return 0, net.ErrClosed }
func (c *fakeConn) Write(b []byte) (int, error)         { return c.buf.Write(b) }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) LocalAddr() net.Addr                 { return nil }
func (c *fakeConn) RemoteAddr() net.Addr                { return nil }
func (c *fakeConn) SetDeadline(t time.Time) error       { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error   { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error  { return nil }

// newTestRequest builds a standalone Request with its own backing
// RequestState, bypassing the Parser, for tests that only exercise Context
// behavior.
func newTestRequest(method, path string) *Request {
	state := NewRequestState(DefaultConfig())
	state.req = Request{
		state:  state,
		method: method,
		url:    parseTarget([]byte(path)),
	}
	return &state.req
}

func TestFDContextBasic(t *testing.T) {
	req := newTestRequest("GET", "/test")
	ctx := NewFDContext(&fakeConn{}, req)

	if ctx.Method() != "GET" {
		t.Errorf("Expected method GET, got %s", ctx.Method())
	}
	if ctx.Path() != "/test" {
		t.Errorf("Expected path /test, got %s", ctx.Path())
	}
}

func TestFDContextParams(t *testing.T) {
	req := newTestRequest("GET", "/users/123")
	ctx := NewFDContext(&fakeConn{}, req)

	ctx.SetParam("id", "123")
	ctx.SetParam("name", "alice")

	if ctx.Param("id") != "123" {
		t.Errorf("Expected id=123, got %s", ctx.Param("id"))
	}
	if ctx.Param("name") != "alice" {
		t.Errorf("Expected name=alice, got %s", ctx.Param("name"))
	}
	if ctx.Param("notexist") != "" {
		t.Error("Expected empty string for non-existent param")
	}
}

func TestFDContextHeaders(t *testing.T) {
	req := newTestRequest("POST", "/api")
	req.state.headers.Add([]byte("content-type"), []byte("application/json"))
	req.state.headers.Add([]byte("user-agent"), []byte("TestAgent/1.0"))

	ctx := NewFDContext(&fakeConn{}, req)

	if ctx.Header("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type=application/json, got %s", ctx.Header("Content-Type"))
	}
	if ctx.GetHeader("User-Agent") != "TestAgent/1.0" {
		t.Errorf("Expected User-Agent=TestAgent/1.0, got %s", ctx.GetHeader("User-Agent"))
	}

	ctx.SetHeader("X-Custom", "test-value")
}

func TestFDContextAbort(t *testing.T) {
	req := newTestRequest("GET", "/")
	ctx := NewFDContext(&fakeConn{}, req)

	if ctx.IsAborted() {
		t.Error("New context should not be aborted")
	}
	ctx.Abort()
	if !ctx.IsAborted() {
		t.Error("Context should be aborted after calling Abort()")
	}
}

func TestFDContextStatus(t *testing.T) {
	req := newTestRequest("GET", "/")
	ctx := NewFDContext(&fakeConn{}, req)

	ctx.Status(404)
	ctx.Status(200)
}

func TestFDContextReset(t *testing.T) {
	req1 := newTestRequest("GET", "/first")
	conn := &fakeConn{}
	ctx := NewFDContext(conn, req1)
	ctx.SetParam("id", "123")
	ctx.SetHeader("X-Test", "value")
	ctx.Abort()

	req2 := newTestRequest("POST", "/second")
	ctx.Reset(conn, req2)

	if ctx.Method() != "POST" {
		t.Errorf("Expected method POST after reset, got %s", ctx.Method())
	}
	if ctx.Path() != "/second" {
		t.Errorf("Expected path /second after reset, got %s", ctx.Path())
	}
	if ctx.IsAborted() {
		t.Error("Context should not be aborted after reset")
	}
	if ctx.Param("id") != "" {
		t.Error("Old params should be cleared after reset")
	}
}

func TestFDContextJSON(t *testing.T) {
	req := newTestRequest("GET", "/")
	ctx := NewFDContext(&fakeConn{}, req)

	data := map[string]any{
		"message": "hello",
		"count":   123,
	}
	ctx.JSON(200, data)
}

func TestFDContextString(t *testing.T) {
	req := newTestRequest("GET", "/")
	ctx := NewFDContext(&fakeConn{}, req)

	ctx.String(200, "Hello, World!")
}

func BenchmarkFDContextSetParam(b *testing.B) {
	req := newTestRequest("GET", "/users/123")
	ctx := NewFDContext(&fakeConn{}, req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.SetParam("id", "123")
	}
}

func BenchmarkFDContextGetParam(b *testing.B) {
	req := newTestRequest("GET", "/users/123")
	ctx := NewFDContext(&fakeConn{}, req)
	ctx.SetParam("id", "123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ctx.Param("id")
	}
}

func BenchmarkFDContextJSON(b *testing.B) {
	req := newTestRequest("GET", "/")
	ctx := NewFDContext(&fakeConn{}, req)
	data := map[string]any{
		"message": "hello",
		"count":   123,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.JSON(200, data)
	}
}
