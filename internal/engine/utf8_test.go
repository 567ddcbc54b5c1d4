package engine

import "testing"

func TestAssemblerHoldsPartialRune(t *testing.T) {
	var a utf8Assembler
	a.Write([]byte("caf"))
	a.Write([]byte{0xC3}) // first byte of 'é'
	if got := a.String(); got != "caf" {
		t.Fatalf("expected partial rune held back, got %q", got)
	}
	if a.Pending() != 1 {
		t.Fatalf("expected 1 pending byte, got %d", a.Pending())
	}

	a.Write([]byte{0xA9})
	if got := a.String(); got != "café" {
		t.Fatalf("expected completed rune, got %q", got)
	}
	if a.Pending() != 0 {
		t.Fatalf("expected no pending bytes, got %d", a.Pending())
	}
}

func TestAssemblerFourByteRuneAcrossWrites(t *testing.T) {
	var a utf8Assembler
	emoji := []byte("🎉")
	for i, b := range emoji {
		a.Write([]byte{b})
		if i < len(emoji)-1 && a.String() != "" {
			t.Fatalf("rune leaked at byte %d: %q", i, a.String())
		}
	}
	if got := a.String(); got != "🎉" {
		t.Fatalf("expected assembled emoji, got %q", got)
	}
}

func TestAssemblerInvalidLeadingByte(t *testing.T) {
	var a utf8Assembler
	a.Write([]byte{0xFF})
	// Not a rune start pattern we can wait on; passed through as-is.
	if a.Pending() != 0 {
		t.Fatalf("invalid byte should not be held, pending %d", a.Pending())
	}
}

func TestAssemblerASCIIPassthrough(t *testing.T) {
	var a utf8Assembler
	a.Write([]byte("hello"))
	if got := a.String(); got != "hello" {
		t.Fatalf("got %q", got)
	}
}
