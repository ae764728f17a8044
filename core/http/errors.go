package http

import "errors"

// Parser errors. Pre-allocated so a failed parse never allocates.
var (
	// ErrHeaderTooBig indicates the header block did not fit in the static buffer.
	ErrHeaderTooBig = errors.New("http: header block exceeds buffer size")

	// ErrConnectionClosed indicates the remote closed before the required bytes arrived.
	ErrConnectionClosed = errors.New("http: connection closed by peer")

	// ErrTimeout indicates the header read timeout elapsed before enough bytes arrived.
	ErrTimeout = errors.New("http: header read timeout")

	// ErrUnknownMethod indicates the request-line method token is not in the accepted set.
	ErrUnknownMethod = errors.New("http: unknown method")

	// ErrInvalidRequestTarget indicates the request-target is neither origin-form nor "*".
	ErrInvalidRequestTarget = errors.New("http: invalid request target")

	// ErrUnknownProtocol indicates the request-line protocol token is malformed.
	ErrUnknownProtocol = errors.New("http: unknown protocol")

	// ErrUnsupportedProtocol indicates the protocol is not HTTP/1.0 or HTTP/1.1.
	ErrUnsupportedProtocol = errors.New("http: unsupported protocol version")

	// ErrInvalidHeaderLine indicates a header line is missing ':' or has a bad CRLF.
	ErrInvalidHeaderLine = errors.New("http: invalid header line")

	// ErrInvalidContentLength indicates Content-Length is non-decimal or empty.
	ErrInvalidContentLength = errors.New("http: invalid Content-Length")

	// ErrBodyTooBig indicates the declared Content-Length exceeds max_body_size.
	ErrBodyTooBig = errors.New("http: body exceeds max_body_size")

	// ErrTooMuchData indicates drain observed more over-read bytes than Content-Length
	// allowed; a pipelined next request has started arriving early.
	ErrTooMuchData = errors.New("http: more data than declared Content-Length")

	// ErrChunkedNotSupported indicates a request used Transfer-Encoding: chunked,
	// which this engine recognizes but does not implement (see DESIGN.md).
	ErrChunkedNotSupported = errors.New("http: chunked transfer-encoding not supported")
)
