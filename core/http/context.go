package http

import (
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/searchktools/fast-server/core/pools"
	"github.com/searchktools/fast-server/core/rpc/codec"
	"github.com/searchktools/fast-server/core/sendfile"
)

// Context defines the HTTP request context interface
type Context interface {
	// Request information
	Method() string
	Path() string
	Param(key string) string
	Query(key string) string
	Header(key string) string
	Body() []byte
	SetParam(key, value string)

	// Response methods
	String(code int, s string)
	JSON(code int, v any)
	Bytes(code int, data []byte)
	Data(code int, contentType string, data []byte)
	Error(code int, message string)
	Success(data any)
	ServeFile(filePath string) error

	// Binding
	Bind(v any) error

	// Connection access
	Conn() net.Conn
}

// StandardContext wraps a parsed Request and the connection it arrived on.
// Path parameters are stored on the Request's own fixed-capacity container
// (set by the router via SetParam), not duplicated here.
type StandardContext struct {
	request *Request
	conn    net.Conn

	// Pre-allocated response buffer
	responseBuf []byte
}

var contextPool = sync.Pool{
	New: func() any {
		return &StandardContext{
			responseBuf: make([]byte, 0, 4096),
		}
	},
}

func AcquireContextForConn(conn net.Conn, req *Request) Context {
	ctx := contextPool.Get().(*StandardContext)
	ctx.conn = conn
	ctx.request = req
	return ctx
}

func ReleaseContext(ctx Context) {
	if stdCtx, ok := ctx.(*StandardContext); ok {
		stdCtx.request = nil
		stdCtx.conn = nil
		contextPool.Put(stdCtx)
	}
}

// SetParam records a path parameter on the underlying request.
func (c *StandardContext) SetParam(key, value string) {
	c.request.state.params.Set(key, value)
}

// Param gets a path parameter
func (c *StandardContext) Param(key string) string {
	v, _ := c.request.Param(key)
	return v
}

// Method returns the HTTP method
func (c *StandardContext) Method() string {
	return c.request.Method()
}

// Path returns the request path
func (c *StandardContext) Path() string {
	return c.request.URL().Path()
}

// Conn returns the underlying connection
func (c *StandardContext) Conn() net.Conn {
	return c.conn
}

// Query gets a query parameter
func (c *StandardContext) Query(key string) string {
	v, _ := c.request.Query(key)
	return v
}

// Header gets a request header
func (c *StandardContext) Header(key string) string {
	v, _ := c.request.Header(key)
	return v
}

// Body returns the request body
func (c *StandardContext) Body() []byte {
	b, _ := c.request.Body()
	return b
}

// Bind decodes the request body as JSON into v.
func (c *StandardContext) Bind(v any) error {
	return c.request.BindCodec(codec.CodecJSON, v)
}

// String sends a text response
func (c *StandardContext) String(code int, s string) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Type: text/plain\r\nContent-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(s))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, s...)

	c.conn.Write(c.responseBuf)
}

// JSON sends a JSON response
func (c *StandardContext) JSON(code int, v any) {
	jsonCodec, _ := codec.GetCodec(codec.CodecJSON)
	data, err := jsonCodec.Encode(v)
	if err != nil {
		c.String(500, "JSON marshal error")
		return
	}

	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Type: application/json\r\nContent-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.conn.Write(c.responseBuf)
}

// Bytes sends a raw bytes response
func (c *StandardContext) Bytes(code int, data []byte) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Type: application/octet-stream\r\nContent-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.conn.Write(c.responseBuf)
}

// Data sends raw data
func (c *StandardContext) Data(code int, contentType string, data []byte) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Type: "...)
	c.responseBuf = append(c.responseBuf, contentType...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.conn.Write(c.responseBuf)
}

// Error sends an error response
func (c *StandardContext) Error(code int, message string) {
	c.JSON(code, map[string]any{
		"code":    code,
		"message": message,
	})
}

// Success sends a success response
func (c *StandardContext) Success(data any) {
	c.JSON(200, map[string]any{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// ServeFile serves a file using zero-copy sendfile
func (c *StandardContext) ServeFile(filePath string) error {
	file, err := getFileInfo(filePath)
	if err != nil {
		c.String(404, "File not found")
		return err
	}

	stat, err := file.Stat()
	if err != nil {
		c.String(500, "Internal server error")
		return err
	}

	size := stat.Size()
	contentType := getContentType(filePath)

	c.responseBuf = c.responseBuf[:0]
	c.responseBuf = append(c.responseBuf, "HTTP/1.1 200 OK\r\nContent-Type: "...)
	c.responseBuf = append(c.responseBuf, contentType...)
	c.responseBuf = append(c.responseBuf, "\r\nContent-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, int(size))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)

	c.conn.Write(c.responseBuf)

	if tcpConn, ok := c.conn.(*net.TCPConn); ok {
		connFile, err := tcpConn.File()
		if err == nil {
			defer connFile.Close()
			connFd := int(connFile.Fd())
			fileFd := int(file.Fd())

			offset := int64(0)
			_, err := sendfileImpl(connFd, fileFd, &offset, int(size))
			return err
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	buffer := pools.GetBytes(32 * 1024)
	defer pools.PutBytes(buffer)
	_, err = copyFileData(file, c.conn, buffer)
	return err
}

// Helper functions for ServeFile
func getFileInfo(path string) (*os.File, error) {
	return sendfile.OpenCached(path)
}

func getContentType(filename string) string {
	return sendfile.GetContentType(filename)
}

func sendfileImpl(outFd, inFd int, offset *int64, count int) (int, error) {
	return syscall.Sendfile(outFd, inFd, offset, count)
}

func copyFileData(src *os.File, dst net.Conn, buffer []byte) (int64, error) {
	return io.CopyBuffer(dst, src, buffer)
}

// appendInt appends an integer to a byte slice
func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}

	if i < 0 {
		b = append(b, '-')
		i = -i
	}

	digits := 0
	tmp := i
	for tmp > 0 {
		digits++
		tmp /= 10
	}

	start := len(b)
	for j := 0; j < digits; j++ {
		b = append(b, '0')
	}

	for j := digits - 1; j >= 0; j-- {
		b[start+j] = byte('0' + i%10)
		i /= 10
	}

	return b
}

// statusText returns the HTTP status text for the given code
func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}
