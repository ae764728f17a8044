package tests

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/searchktools/fast-server/core"
	"github.com/searchktools/fast-server/core/http"
)

// startEngine boots an Engine on an ephemeral loopback port and returns its
// dialable address, running Run in the background for the life of the test.
func startEngine(t *testing.T) string {
	t.Helper()

	engine := core.NewEngine(http.DefaultConfig())
	engine.GET("/ping", func(ctx http.Context) {
		ctx.String(200, "pong")
	})
	engine.GET("/echo/:word", func(ctx http.Context) {
		ctx.String(200, ctx.Param("word"))
	})
	engine.POST("/echo", func(ctx http.Context) {
		ctx.Bytes(200, ctx.Body())
	})

	go engine.Run("127.0.0.1:0")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if addr := engine.Addr(); addr != nil {
			return addr.String()
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("engine did not bind a listener in time")
	return ""
}

func readStatusLine(t *testing.T, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	status, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	return status
}

func TestEngine_HandlesSequentialRequests(t *testing.T) {
	addr := startEngine(t)

	for i := 0; i < 20; i++ {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err != nil {
			t.Fatalf("request %d: dial: %v", i, err)
		}
		if _, err := conn.Write([]byte("GET /ping HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")); err != nil {
			t.Fatalf("request %d: write: %v", i, err)
		}
		status := readStatusLine(t, conn)
		conn.Close()
		if status[:12] != "HTTP/1.1 200" {
			t.Fatalf("request %d: status = %q, want 200", i, status)
		}
	}
}

func TestEngine_HandlesConcurrentConnections(t *testing.T) {
	addr := startEngine(t)

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
			if err != nil {
				errs <- fmt.Errorf("conn %d dial: %w", i, err)
				return
			}
			defer conn.Close()

			req := fmt.Sprintf("GET /echo/client%d HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n", i)
			if _, err := conn.Write([]byte(req)); err != nil {
				errs <- fmt.Errorf("conn %d write: %w", i, err)
				return
			}
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			status, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				errs <- fmt.Errorf("conn %d read: %w", i, err)
				return
			}
			if status[:12] != "HTTP/1.1 200" {
				errs <- fmt.Errorf("conn %d: status = %q", i, status)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEngine_PipelinedKeepAliveRequests(t *testing.T) {
	addr := startEngine(t)

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	raw := "GET /ping HTTP/1.1\r\nHost: x\r\n\r\n" + "GET /ping HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"
	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)

	for i := 0; i < 2; i++ {
		status, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("response %d: read status: %v", i, err)
		}
		if status[:12] != "HTTP/1.1 200" {
			t.Fatalf("response %d: status = %q, want 200", i, status)
		}
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("response %d: read header: %v", i, err)
			}
			if line == "\r\n" {
				break
			}
		}
		body := make([]byte, len("pong"))
		if _, err := io.ReadFull(reader, body); err != nil || string(body) != "pong" {
			t.Fatalf("response %d: body = %q, err = %v, want \"pong\"", i, body, err)
		}
	}
}

func TestEngine_Returns404ForUnknownRoute(t *testing.T) {
	addr := startEngine(t)

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET /nope HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	status := readStatusLine(t, conn)
	if status[:12] != "HTTP/1.1 404" {
		t.Fatalf("status = %q, want 404", status)
	}
}
