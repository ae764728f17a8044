package http

import (
	"net"
	"strings"

	"github.com/searchktools/fast-server/core/rpc/codec"
	"google.golang.org/protobuf/proto"
)

// Request is a borrowed view over a RequestState: every []byte field either
// points straight into the state's static buffer or into its arena. It is
// invalid to retain a Request, or anything returned from it, past the point
// its owning RequestState is released back to the pool.
type Request struct {
	state *RequestState

	method    string
	proto10   bool
	url       URL
	conn      net.Conn
	remote    string
	keepAlive bool

	hasContentLength bool
	contentLength    int
	headerOverread   []byte

	bodyRead  bool
	bodyCache []byte
	bodyErr   error

	queryDecoded bool
}

// Method returns the request-line method token, e.g. "GET".
func (r *Request) Method() string { return r.method }

// URL returns the parsed request-target.
func (r *Request) URL() *URL { return &r.url }

// RemoteAddr returns the client address the connection was accepted from.
func (r *Request) RemoteAddr() string { return r.remote }

// IsHTTP10 reports whether the request line declared HTTP/1.0.
func (r *Request) IsHTTP10() bool { return r.proto10 }

// Header looks up a header by name, case-insensitively. Names are
// lowercased in place during parsing, so lookups lowercase the query name
// to match.
func (r *Request) Header(name string) (string, bool) {
	return r.state.headers.GetString(strings.ToLower(name))
}

// Param looks up a path parameter set by the router.
func (r *Request) Param(name string) (string, bool) {
	return r.state.params.Get(name)
}

// SetParam records a path parameter, called by the router after a route
// match.
func (r *Request) SetParam(name, value string) {
	r.state.params.Set(name, value)
}

// Query looks up a decoded query-string value, decoding the whole query
// string on first call.
func (r *Request) Query(name string) (string, bool) {
	r.decodeQuery()
	return r.state.query.GetString(name)
}

// CanKeepAlive reports whether the connection may serve another request
// after this one. HTTP/1.1 defaults to true unless the client sent
// "Connection: close"; HTTP/1.0 defaults to false and is true only when the
// client sent "Connection: keep-alive" and did not also send
// "Connection: close".
func (r *Request) CanKeepAlive() bool { return r.keepAlive }

// Body reads and returns the request body, reading any bytes not already
// captured during header parsing directly off the connection. The result is
// memoized: calling Body twice returns the same slice and does not read
// twice.
func (r *Request) Body() ([]byte, error) {
	if r.bodyRead {
		return r.bodyCache, r.bodyErr
	}
	r.bodyRead = true

	if !r.hasContentLength || r.contentLength <= 0 {
		return nil, nil
	}
	if r.contentLength > r.state.cfg.MaxBodySize {
		r.bodyErr = ErrBodyTooBig
		return nil, r.bodyErr
	}

	have := r.headerOverread
	if len(have) >= r.contentLength {
		r.bodyCache = have[:r.contentLength]
		return r.bodyCache, nil
	}

	full := r.state.arena.Alloc(r.contentLength)
	copy(full, have)
	remaining := full[len(have):]
	for len(remaining) > 0 {
		n, err := r.conn.Read(remaining)
		if n == 0 {
			r.bodyErr = ErrConnectionClosed
			return nil, r.bodyErr
		}
		remaining = remaining[n:]
		if err != nil && len(remaining) > 0 {
			r.bodyErr = err
			return nil, r.bodyErr
		}
	}
	r.bodyCache = full
	return r.bodyCache, nil
}

// Bind reads the body and JSON-decodes it into v.
func (r *Request) Bind(v any) error {
	return r.BindCodec(codec.CodecJSON, v)
}

// BindCodec reads the body and decodes it into v using the named codec,
// letting callers opt into msgpack or protobuf bodies the same way Bind
// opts into JSON.
func (r *Request) BindCodec(typ codec.CodecType, v any) error {
	b, err := r.Body()
	if err != nil {
		return err
	}
	c, err := codec.GetCodec(typ)
	if err != nil {
		return err
	}
	return c.Decode(b, v)
}

// BindProto reads the body and protobuf-decodes it into msg, a convenience
// wrapper over BindCodec for handlers that work with generated proto types
// directly instead of going through the CodecType enum.
func (r *Request) BindProto(msg proto.Message) error {
	b, err := r.Body()
	if err != nil {
		return err
	}
	return proto.Unmarshal(b, msg)
}

// Leftover returns bytes already read past this request's body that belong
// to the next pipelined request, if any. It is only meaningful once the
// body has been read (directly or via Drain), and is meant to be passed as
// the prefill argument to the next Parser.Parse call on the same
// connection.
func (r *Request) Leftover() []byte {
	if !r.bodyRead {
		return nil
	}
	if !r.hasContentLength || r.contentLength == 0 {
		return r.headerOverread
	}
	if len(r.headerOverread) > r.contentLength {
		return r.headerOverread[r.contentLength:]
	}
	return nil
}

// Drain reads and discards any unread body so the connection is left
// positioned at the start of the next pipelined request, if any. A request
// handler that ignores the body entirely must still call Drain before the
// connection is reused.
func (r *Request) Drain() error {
	_, err := r.Body()
	return err
}

// decodeQuery percent-decodes the raw query string into the state's query
// store. It is idempotent and forces the body to be read first: both read
// from the connection's static buffer, and decoding the query before the
// body has been drained would let query decoding observe bytes that still
// belong to an unread body.
func (r *Request) decodeQuery() {
	if r.queryDecoded {
		return
	}
	r.queryDecoded = true
	r.Body()

	raw := r.url.rawQuery
	for len(raw) > 0 {
		var pair []byte
		if i := indexByte(raw, '&'); i >= 0 {
			pair = raw[:i]
			raw = raw[i+1:]
		} else {
			pair = raw
			raw = nil
		}
		if len(pair) == 0 {
			continue
		}

		var key, val []byte
		if i := indexByte(pair, '='); i >= 0 {
			key, val = pair[:i], pair[i+1:]
		} else {
			key = pair
		}

		dk := Unescape(r.state.arena, nil, key)
		dv := Unescape(r.state.arena, nil, val)
		r.state.query.Add(dk, dv)
	}
}
