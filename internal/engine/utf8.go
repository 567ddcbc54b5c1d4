package engine

import "unicode/utf8"

// utf8Assembler accumulates raw token bytes and exposes only complete
// text. Tokens may split a multi-byte character across decode steps; a
// trailing partial rune is held back until its continuation bytes arrive.
type utf8Assembler struct {
	buf []byte
}

func (a *utf8Assembler) Write(p []byte) {
	a.buf = append(a.buf, p...)
}

// String returns the accumulated text, excluding any incomplete trailing
// rune.
func (a *utf8Assembler) String() string {
	return string(a.buf[:a.completeLen()])
}

// Pending reports how many trailing bytes await rune completion.
func (a *utf8Assembler) Pending() int {
	return len(a.buf) - a.completeLen()
}

func (a *utf8Assembler) completeLen() int {
	n := len(a.buf)
	// Only the last rune can be incomplete; scan back to its start byte.
	for i := n - 1; i >= 0 && n-i < utf8.UTFMax; i-- {
		b := a.buf[i]
		if !utf8.RuneStart(b) {
			continue
		}
		if expected := runeLen(b); expected > n-i {
			return i
		}
		return n
	}
	return n
}

// runeLen returns the encoded length a leading byte announces, or 1 for
// invalid leading bytes (passed through as-is).
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
