package http

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// acceptedMethods is the set of request-line method tokens this parser
// recognizes. Anything else fails fast with ErrUnknownMethod rather than
// being handed to a router that will 404 it anyway. CONNECT and TRACE are
// deliberately absent: they're tunneling/diagnostic methods outside this
// library's origin-form request/response model.
var acceptedMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true,
	"DELETE": true, "OPTIONS": true, "PATCH": true,
}

// Parser turns bytes off a connection into a Request, filling a caller-owned
// RequestState in place. Every []byte it produces borrows from state.buf or
// state.arena; the method string, the lowercased protocol token and the
// TimedReader are still allocated per call.
type Parser struct{}

// NewParser returns a Parser. It carries no state of its own; all mutable
// state lives in the RequestState passed to Parse.
func NewParser() *Parser { return &Parser{} }

// Parse reads and parses one HTTP/1.x request header block from conn into
// state, then returns a *Request borrowing from it. The method, target, and
// protocol phases are checked incrementally against whatever prefix of the
// request line has arrived so far — each fails as soon as its token is
// complete, rather than waiting for the full header block to accumulate.
// Only the headers phase needs the terminating CRLFCRLF; bytes read past
// that terminator in the same underlying read become the request's
// header_overread, the start of its body.
func (p *Parser) Parse(state *RequestState, conn net.Conn, remoteAddr string, prefill []byte) (*Request, error) {
	reader := NewTimedReader(conn)
	cfg := ReaderConfig{TimeoutMs: state.cfg.ReadHeaderTimeout}

	buf := state.buf
	pos := copy(buf, prefill)
	headerEnd := -1

	for {
		if err := checkRequestLinePrefix(buf[:pos]); err != nil {
			return nil, err
		}
		if idx := findHeaderEnd(buf[:pos]); idx >= 0 {
			headerEnd = idx
			break
		}
		if pos == len(buf) {
			return nil, ErrHeaderTooBig
		}
		n, err := reader.readForHeader(buf[pos:], cfg)
		if err != nil {
			return nil, err
		}
		pos += n
	}

	block := buf[:headerEnd+2] // request-line + headers, each CRLF-terminated
	overread := buf[headerEnd+4 : pos]

	lines := splitLines(block)
	if len(lines) == 0 {
		return nil, ErrInvalidRequestTarget
	}

	method, target, proto10, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	state.req = Request{
		state:          state,
		method:         method,
		proto10:        proto10,
		url:            parseTarget(target),
		conn:           conn,
		remote:         remoteAddr,
		headerOverread: overread,
	}
	req := &state.req

	if !req.url.star && (len(req.url.path) == 0 || req.url.path[0] != '/') {
		return nil, ErrInvalidRequestTarget
	}

	var connectionClose, connectionKeepAlive bool
	for _, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}
		name, value, err := parseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		state.headers.Add(name, value)

		switch string(name) {
		case "content-length":
			n, err := parseContentLength(value)
			if err != nil {
				return nil, err
			}
			req.hasContentLength = true
			req.contentLength = n
		case "transfer-encoding":
			if strings.Contains(strings.ToLower(string(value)), "chunked") {
				return nil, ErrChunkedNotSupported
			}
		case "connection":
			tok := strings.ToLower(strings.TrimSpace(string(value)))
			switch tok {
			case "close":
				connectionClose = true
			case "keep-alive":
				connectionKeepAlive = true
			}
		}
	}

	if proto10 {
		req.keepAlive = connectionKeepAlive && !connectionClose
	} else {
		req.keepAlive = !connectionClose
	}

	return req, nil
}

// parseRequestLine splits "METHOD SP target SP HTTP/x.y" into its tokens.
func parseRequestLine(line []byte) (method string, target []byte, proto10 bool, err error) {
	sp1 := indexByte(line, ' ')
	if sp1 <= 0 {
		return "", nil, false, ErrInvalidRequestTarget
	}
	methodTok := line[:sp1]
	rest := line[sp1+1:]

	sp2 := indexByte(rest, ' ')
	if sp2 <= 0 {
		return "", nil, false, ErrInvalidRequestTarget
	}
	targetTok := rest[:sp2]
	protoTok := rest[sp2+1:]

	if !acceptedMethods[string(methodTok)] {
		return "", nil, false, ErrUnknownMethod
	}

	proto10, err = protoVersion(protoTok)
	if err != nil {
		return "", nil, false, err
	}

	if len(targetTok) == 0 {
		return "", nil, false, ErrInvalidRequestTarget
	}

	return string(methodTok), targetTok, proto10, nil
}

// protoVersion classifies a protocol token, distinguishing a malformed
// token (not even "HTTP/"-shaped) from a well-formed but unsupported one.
func protoVersion(tok []byte) (proto10 bool, err error) {
	switch string(tok) {
	case "HTTP/1.1":
		return false, nil
	case "HTTP/1.0":
		return true, nil
	case "":
		return false, ErrUnknownProtocol
	default:
		if !strings.HasPrefix(string(tok), "HTTP/") {
			return false, ErrUnknownProtocol
		}
		return false, ErrUnsupportedProtocol
	}
}

// checkRequestLinePrefix validates whatever prefix of the request line is
// present in buf so far, failing as soon as a token is malformed rather
// than waiting for the rest of the header block to arrive. It returns nil
// both when everything seen so far is valid and when a token is still
// incomplete (its delimiter hasn't arrived yet) — there is nothing to judge
// until a token's boundary is known.
func checkRequestLinePrefix(buf []byte) error {
	sp1 := indexByte(buf, ' ')
	if sp1 < 0 {
		return nil // method token not yet complete
	}
	if sp1 == 0 {
		return ErrInvalidRequestTarget
	}
	if !acceptedMethods[string(buf[:sp1])] {
		return ErrUnknownMethod
	}

	rest := buf[sp1+1:]
	sp2 := indexByte(rest, ' ')
	if sp2 < 0 {
		return nil // target token not yet complete
	}
	if sp2 == 0 {
		return ErrInvalidRequestTarget
	}

	protoPart := rest[sp2+1:]
	end := findCRLF(protoPart)
	if end < 0 {
		return nil // protocol token not yet complete
	}
	_, err := protoVersion(protoPart[:end])
	return err
}

// parseHeaderLine splits "Name: value" into a lowercased name and a
// whitespace-trimmed value, both still borrowed from the connection buffer.
func parseHeaderLine(line []byte) (name, value []byte, err error) {
	colon := indexByte(line, ':')
	if colon <= 0 {
		return nil, nil, ErrInvalidHeaderLine
	}
	name = line[:colon]
	value = trimOWS(line[colon+1:])

	lowerInPlace(name)

	if !httpguts.ValidHeaderFieldName(string(name)) || !httpguts.ValidHeaderFieldValue(string(value)) {
		return nil, nil, ErrInvalidHeaderLine
	}
	return name, value, nil
}

func lowerInPlace(b []byte) {
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// parseContentLength accepts only a nonempty run of ASCII digits, rejecting
// leading '+'/'-' and any non-decimal content the way strconv.Atoi would
// otherwise silently tolerate in edge cases.
func parseContentLength(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrInvalidContentLength
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrInvalidContentLength
		}
	}
	n, err := strconv.Atoi(string(b))
	if err != nil || n < 0 {
		return 0, ErrInvalidContentLength
	}
	return n, nil
}

// findCRLF locates the next "\r\n" in b, resuming the scan after any lone
// '\r' that isn't followed by '\n'.
func findCRLF(b []byte) int {
	off := 0
	for {
		i := findCarriageReturn(b[off:])
		if i < 0 {
			return -1
		}
		abs := off + i
		if abs+1 < len(b) && b[abs+1] == '\n' {
			return abs
		}
		off = abs + 1
	}
}

// findHeaderEnd locates the "\r\n\r\n" header terminator in buf.
func findHeaderEnd(buf []byte) int {
	off := 0
	for {
		i := findCarriageReturn(buf[off:])
		if i < 0 {
			return -1
		}
		abs := off + i
		if abs+3 < len(buf) && buf[abs+1] == '\n' && buf[abs+2] == '\r' && buf[abs+3] == '\n' {
			return abs
		}
		off = abs + 1
	}
}

// splitLines splits a CRLF-terminated header block into individual lines,
// dropping the trailing empty line produced by the final CRLF.
func splitLines(block []byte) [][]byte {
	var lines [][]byte
	for len(block) > 0 {
		i := findCRLF(block)
		if i < 0 {
			lines = append(lines, block)
			break
		}
		lines = append(lines, block[:i])
		block = block[i+2:]
	}
	return lines
}
