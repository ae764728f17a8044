package http

import "testing"

func TestParseTarget_PathAndQuery(t *testing.T) {
	u := parseTarget([]byte("/search?q=go+lang&page=2"))
	if string(u.Path()) != "/search" {
		t.Fatalf("Path() = %q, want /search", u.Path())
	}
	if string(u.RawQuery()) != "q=go+lang&page=2" {
		t.Fatalf("RawQuery() = %q", u.RawQuery())
	}
	if u.IsAsterisk() {
		t.Fatal("expected IsAsterisk() false for an origin-form target")
	}
}

func TestParseTarget_NoQuery(t *testing.T) {
	u := parseTarget([]byte("/plain"))
	if string(u.Path()) != "/plain" {
		t.Fatalf("Path() = %q", u.Path())
	}
	if len(u.RawQuery()) != 0 {
		t.Fatalf("RawQuery() = %q, want empty", u.RawQuery())
	}
}

func TestParseTarget_Asterisk(t *testing.T) {
	u := parseTarget([]byte("*"))
	if !u.IsAsterisk() {
		t.Fatal("expected IsAsterisk() true for \"*\"")
	}
}

func TestUnescape_NoEscapesIsZeroCopy(t *testing.T) {
	arena := NewArena(64)
	src := []byte("plain")
	out := Unescape(arena, nil, src)

	if &out[0] != &src[0] {
		t.Fatal("expected zero-copy borrow when there is nothing to decode")
	}
}

func TestUnescape_PlusBecomesSpace(t *testing.T) {
	arena := NewArena(64)
	out := Unescape(arena, nil, []byte("go+lang"))
	if string(out) != "go lang" {
		t.Fatalf("Unescape(go+lang) = %q, want \"go lang\"", out)
	}
}

func TestUnescape_PercentDecode(t *testing.T) {
	arena := NewArena(64)
	out := Unescape(arena, nil, []byte("a%20b%2Fc"))
	if string(out) != "a b/c" {
		t.Fatalf("Unescape(a%%20b%%2Fc) = %q, want \"a b/c\"", out)
	}
}

func TestUnescape_ScratchBuffer(t *testing.T) {
	arena := NewArena(64)
	scratch := make([]byte, 0, 16)
	out := Unescape(arena, scratch, []byte("x%2Cy"))
	if string(out) != "x,y" {
		t.Fatalf("Unescape with scratch = %q, want \"x,y\"", out)
	}
}
