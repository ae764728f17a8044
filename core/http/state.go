package http

// Config bundles the sizing knobs that govern a RequestState: the static
// buffer size shared by header block, body over-read, and percent-decode
// scratch, the maximum body size before ErrBodyTooBig, capacities for the
// three fixed-size containers, and an optional header read deadline.
type Config struct {
	BufferSize        int
	MaxBodySize       int
	MaxHeaderCount    int
	MaxQueryCount     int
	MaxParamCount     int
	ReadHeaderTimeout int // milliseconds, 0 disables
}

// DefaultConfig mirrors the configuration table: a 32KiB shared buffer, a
// 1MiB body ceiling, and header/query/param capacities sized for ordinary
// API traffic.
func DefaultConfig() Config {
	return Config{
		BufferSize:     32 * 1024,
		MaxBodySize:    1 << 20,
		MaxHeaderCount: 32,
		MaxQueryCount:  32,
		MaxParamCount:  10,
	}
}

// RequestState is the unit the lock-free pool hands out. It owns the static
// buffer and every container a Request borrows from, so that acquiring one
// from the pool and calling Reset is the entire per-connection setup cost.
type RequestState struct {
	cfg Config

	buf []byte // header region + body over-read + percent-decode scratch

	headers *KeyValueStore
	query   *KeyValueStore
	params  *PathParams

	arena *Arena

	req Request
}

// NewRequestState allocates a RequestState sized per cfg. Pool overflow
// allocation goes through this constructor the same way as the initial fill.
func NewRequestState(cfg Config) *RequestState {
	s := &RequestState{
		cfg:     cfg,
		buf:     make([]byte, cfg.BufferSize),
		headers: NewKeyValueStore(cfg.MaxHeaderCount),
		query:   NewKeyValueStore(cfg.MaxQueryCount),
		params:  NewPathParams(cfg.MaxParamCount),
		arena:   NewArena(cfg.BufferSize),
	}
	return s
}

// Reset discards everything from the previous request so the RequestState
// can be handed to the next connection to use it. The buffer's backing array
// is kept; only the containers' cursors and the request's scalar fields are
// cleared.
func (s *RequestState) Reset() {
	s.headers.Reset()
	s.query.Reset()
	s.params.Reset()
	s.arena.Reset()
	s.req = Request{}
}
