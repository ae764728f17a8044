package http

import (
	"net"

	"github.com/searchktools/fast-server/core/rpc/codec"
)

// FDContext is a lighter-weight context than StandardContext: each response
// is built in one buffer (status line, content headers, any SetHeader
// headers, body) and written straight to conn; its ServeFile writes nothing
// and returns nil. It
// predates the goroutine-per-connection rewrite as an fd-based, epoll-driven
// context; it now writes through net.Conn like StandardContext does, since
// the engine no longer multiplexes raw fds itself.
type FDContext struct {
	conn net.Conn

	request *Request

	responseBuf     []byte
	responseHeaders map[string]string
	statusCode      int
	aborted         bool
}

// NewFDContext creates a new context bound to conn and req.
func NewFDContext(conn net.Conn, req *Request) *FDContext {
	return &FDContext{
		conn:        conn,
		request:     req,
		responseBuf: make([]byte, 0, 4096),
		statusCode:  200,
	}
}

func (c *FDContext) Method() string {
	return c.request.Method()
}

func (c *FDContext) Path() string {
	return c.request.URL().Path()
}

func (c *FDContext) Param(key string) string {
	v, _ := c.request.Param(key)
	return v
}

func (c *FDContext) Query(key string) string {
	v, _ := c.request.Query(key)
	return v
}

func (c *FDContext) Header(key string) string {
	v, _ := c.request.Header(key)
	return v
}

func (c *FDContext) Body() []byte {
	b, _ := c.request.Body()
	return b
}

func (c *FDContext) SetParam(key, value string) {
	c.request.state.params.Set(key, value)
}

// writeResponse flushes the response buffer in a single write. Headers
// queued via SetHeader are already in it, placed by appendExtraHeaders
// ahead of Content-Length. A context with no connection writes nothing and
// returns net.ErrClosed.
func (c *FDContext) writeResponse() error {
	if c.conn == nil {
		return net.ErrClosed
	}
	_, err := c.conn.Write(c.responseBuf)
	return err
}

// String sends a plain text response
func (c *FDContext) String(code int, s string) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\n"...)
	c.responseBuf = append(c.responseBuf, "Content-Type: text/plain\r\n"...)
	c.appendExtraHeaders()
	c.responseBuf = append(c.responseBuf, "Content-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(s))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, s...)

	c.writeResponse()
}

// JSON sends a JSON response
func (c *FDContext) JSON(code int, v any) {
	jsonCodec, _ := codec.GetCodec(codec.CodecJSON)
	data, err := jsonCodec.Encode(v)
	if err != nil {
		c.Error(500, "Failed to marshal JSON")
		return
	}

	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\n"...)
	c.responseBuf = append(c.responseBuf, "Content-Type: application/json\r\n"...)
	c.appendExtraHeaders()
	c.responseBuf = append(c.responseBuf, "Content-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.writeResponse()
}

// Bytes sends a raw bytes response
func (c *FDContext) Bytes(code int, data []byte) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\n"...)
	c.responseBuf = append(c.responseBuf, "Content-Type: application/octet-stream\r\n"...)
	c.appendExtraHeaders()
	c.responseBuf = append(c.responseBuf, "Content-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.writeResponse()
}

// Data sends a response with custom content type
func (c *FDContext) Data(code int, contentType string, data []byte) {
	c.responseBuf = c.responseBuf[:0]

	c.responseBuf = append(c.responseBuf, "HTTP/1.1 "...)
	c.responseBuf = appendInt(c.responseBuf, code)
	c.responseBuf = append(c.responseBuf, ' ')
	c.responseBuf = append(c.responseBuf, statusText(code)...)
	c.responseBuf = append(c.responseBuf, "\r\n"...)
	c.responseBuf = append(c.responseBuf, "Content-Type: "...)
	c.responseBuf = append(c.responseBuf, contentType...)
	c.responseBuf = append(c.responseBuf, "\r\n"...)
	c.appendExtraHeaders()
	c.responseBuf = append(c.responseBuf, "Content-Length: "...)
	c.responseBuf = appendInt(c.responseBuf, len(data))
	c.responseBuf = append(c.responseBuf, "\r\n\r\n"...)
	c.responseBuf = append(c.responseBuf, data...)

	c.writeResponse()
}

func (c *FDContext) appendExtraHeaders() {
	for k, v := range c.responseHeaders {
		c.responseBuf = append(c.responseBuf, k...)
		c.responseBuf = append(c.responseBuf, ": "...)
		c.responseBuf = append(c.responseBuf, v...)
		c.responseBuf = append(c.responseBuf, "\r\n"...)
	}
}

// Error sends an error response
func (c *FDContext) Error(code int, message string) {
	c.JSON(code, map[string]any{
		"code":    code,
		"message": message,
	})
}

// Success sends a success response
func (c *FDContext) Success(data any) {
	c.JSON(200, map[string]any{
		"code":    0,
		"data":    data,
		"message": "success",
	})
}

// ServeFile is not implemented for FDContext; use StandardContext instead.
func (c *FDContext) ServeFile(filePath string) error {
	return nil
}

// Bind decodes the request body as JSON into v.
func (c *FDContext) Bind(v any) error {
	return c.request.BindCodec(codec.CodecJSON, v)
}

// Conn returns the underlying connection.
func (c *FDContext) Conn() net.Conn {
	return c.conn
}

// GetHeader returns a request header value
func (c *FDContext) GetHeader(key string) string {
	return c.Header(key)
}

// SetHeader queues a response header to be written alongside the fixed
// status/content headers.
func (c *FDContext) SetHeader(key, value string) {
	if c.responseHeaders == nil {
		c.responseHeaders = make(map[string]string, 8)
	}
	c.responseHeaders[key] = value
}

// Status sets the response status code
func (c *FDContext) Status(code int) {
	c.statusCode = code
}

// IsAborted returns whether the request has been aborted
func (c *FDContext) IsAborted() bool {
	return c.aborted
}

// Abort aborts the request processing
func (c *FDContext) Abort() {
	c.aborted = true
}

// Reset rebinds the context to a new connection and request for reuse.
func (c *FDContext) Reset(conn net.Conn, req *Request) {
	c.conn = conn
	c.request = req

	if c.responseHeaders != nil {
		for k := range c.responseHeaders {
			delete(c.responseHeaders, k)
		}
	}

	c.responseBuf = c.responseBuf[:0]
	c.statusCode = 200
	c.aborted = false
}
