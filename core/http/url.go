package http

// URL holds the parsed request-target. path and rawQuery are views into the
// connection's static buffer; star is set for the "*" request-target used by
// OPTIONS requests and carries no path or query.
type URL struct {
	raw      []byte
	path     []byte
	rawQuery []byte
	star     bool
}

// Raw returns the untouched request-target as it appeared on the wire.
func (u *URL) Raw() string { return string(u.raw) }

// Path returns the decoded-later path component. It has not been
// percent-decoded; callers that need decoded path segments should route them
// through Unescape the same way query values are.
func (u *URL) Path() string { return string(u.path) }

// RawQuery returns the query component without the leading '?'.
func (u *URL) RawQuery() string { return string(u.rawQuery) }

// IsAsterisk reports whether the request-target was the literal "*" form.
func (u *URL) IsAsterisk() bool { return u.star }

// parseTarget splits a request-target into path and query components. It
// does not validate structure beyond locating '?'; that is the parser's job.
func parseTarget(target []byte) URL {
	if len(target) == 1 && target[0] == '*' {
		return URL{raw: target, star: true}
	}
	if i := indexByte(target, '?'); i >= 0 {
		return URL{raw: target, path: target[:i], rawQuery: target[i+1:]}
	}
	return URL{raw: target, path: target}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// isHex reports whether c is a valid percent-encoding hex digit.
func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// hasPercentEscape reports whether src contains a well-formed %XX triplet.
func hasPercentEscape(src []byte) bool {
	for i := 0; i < len(src); i++ {
		if src[i] == '%' && i+2 < len(src) && isHex(src[i+1]) && isHex(src[i+2]) {
			return true
		}
	}
	return false
}

// Unescape decodes percent-escapes and '+' in src. When src has no escapes
// it returns src itself unmodified, a zero-copy borrow straight from the
// static buffer. When it does have escapes, the decoded bytes are written
// into scratch if they fit, otherwise into an allocation carved from arena.
// '+' is treated as a literal space, matching application/x-www-form-urlencoded
// query-string convention.
func Unescape(arena *Arena, scratch []byte, src []byte) []byte {
	if !hasPercentEscape(src) && indexByte(src, '+') < 0 {
		return src
	}

	dst := scratch
	if cap(dst) < len(src) {
		dst = arena.Alloc(len(src))
	}
	dst = dst[:0]

	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '%' && i+2 < len(src) && isHex(src[i+1]) && isHex(src[i+2]):
			dst = append(dst, unhex(src[i+1])<<4|unhex(src[i+2]))
			i += 2
		case c == '+':
			dst = append(dst, ' ')
		default:
			dst = append(dst, c)
		}
	}
	return dst
}
