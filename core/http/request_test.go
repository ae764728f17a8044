package http

import "testing"

func TestRequest_BodyFromOverread(t *testing.T) {
	conn := &scriptedConn{data: []byte("hello")}
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state:            state,
		method:           "POST",
		conn:             conn,
		hasContentLength: true,
		contentLength:    5,
		headerOverread:   []byte("hello"),
	}

	body, err := req.Body()
	if err != nil {
		t.Fatalf("Body error: %v", err)
	}
	if string(body) != "hello" {
		t.Fatalf("Body() = %q, want \"hello\"", body)
	}
}

func TestRequest_BodyMemoized(t *testing.T) {
	conn := &scriptedConn{data: []byte("hello")}
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state:            state,
		conn:             conn,
		hasContentLength: true,
		contentLength:    5,
		headerOverread:   []byte("hello"),
	}

	first, err := req.Body()
	if err != nil {
		t.Fatalf("Body error: %v", err)
	}
	second, err := req.Body()
	if err != nil {
		t.Fatalf("second Body error: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatal("expected Body() to return the same backing array on repeated calls")
	}
}

func TestRequest_BodyReadsRemainderFromConn(t *testing.T) {
	conn := &scriptedConn{data: []byte("world")}
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state:            state,
		conn:             conn,
		hasContentLength: true,
		contentLength:    5,
		headerOverread:   nil, // nothing captured during header parse
	}

	body, err := req.Body()
	if err != nil {
		t.Fatalf("Body error: %v", err)
	}
	if string(body) != "world" {
		t.Fatalf("Body() = %q, want \"world\"", body)
	}
}

func TestRequest_BodyTooBig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodySize = 4
	state := NewRequestState(cfg)
	req := &state.req
	*req = Request{
		state:            state,
		conn:             &scriptedConn{},
		hasContentLength: true,
		contentLength:    100,
	}

	_, err := req.Body()
	if err != ErrBodyTooBig {
		t.Fatalf("err = %v, want ErrBodyTooBig", err)
	}
}

func TestRequest_NoContentLengthHasNoBody(t *testing.T) {
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{state: state, conn: &scriptedConn{}}

	body, err := req.Body()
	if err != nil || body != nil {
		t.Fatalf("Body() = %v, %v, want nil, nil", body, err)
	}
}

func TestRequest_QueryDecoding(t *testing.T) {
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state: state,
		conn:  &scriptedConn{},
		url:   parseTarget([]byte("/search?q=go+lang&empty=&flag")),
	}

	v, ok := req.Query("q")
	if !ok || v != "go lang" {
		t.Fatalf("Query(q) = %q, %v, want \"go lang\"", v, ok)
	}
	if v, ok := req.Query("empty"); !ok || v != "" {
		t.Fatalf("Query(empty) = %q, %v", v, ok)
	}
	if v, ok := req.Query("flag"); !ok || v != "" {
		t.Fatalf("Query(flag) = %q, %v", v, ok)
	}
	if _, ok := req.Query("missing"); ok {
		t.Fatal("expected missing query key to report not found")
	}
}

func TestRequest_QueryDecodingIsIdempotent(t *testing.T) {
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state: state,
		conn:  &scriptedConn{},
		url:   parseTarget([]byte("/x?a=1&a=2")),
	}

	req.decodeQuery()
	lenAfterFirst := state.query.Len()
	req.decodeQuery()
	if state.query.Len() != lenAfterFirst {
		t.Fatalf("decodeQuery is not idempotent: Len() went from %d to %d", lenAfterFirst, state.query.Len())
	}
	v, _ := req.Query("a")
	if v != "1" {
		t.Fatalf("Query(a) = %q, want \"1\" (first-insertion-wins)", v)
	}
}

func TestRequest_BindJSON(t *testing.T) {
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state:            state,
		conn:             &scriptedConn{},
		hasContentLength: true,
		contentLength:    16,
		headerOverread:   []byte(`{"name":"alice"}`),
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := req.Bind(&out); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if out.Name != "alice" {
		t.Fatalf("out.Name = %q, want alice", out.Name)
	}
}

func TestRequest_Leftover(t *testing.T) {
	state := NewRequestState(DefaultConfig())
	req := &state.req
	*req = Request{
		state:            state,
		conn:             &scriptedConn{},
		hasContentLength: true,
		contentLength:    3,
		headerOverread:   []byte("abcXYZ"),
	}

	if _, err := req.Body(); err != nil {
		t.Fatalf("Body error: %v", err)
	}
	if string(req.Leftover()) != "XYZ" {
		t.Fatalf("Leftover() = %q, want \"XYZ\"", req.Leftover())
	}
}
