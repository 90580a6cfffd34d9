package protocol

import (
	"strings"
	"unicode/utf8"
)

// FieldSize is the width of every fixed-size field: names during the
// handshake and the client's per-tick action token.
const FieldSize = 16

const padByte = ' '

// EncodeField truncates s to FieldSize bytes, never splitting a rune,
// and right-pads it with spaces.
// A name that itself ends in spaces loses them on the other side.
func EncodeField(s string) [FieldSize]byte {
	var out [FieldSize]byte
	s = Truncate(s)
	n := copy(out[:], s)
	for i := n; i < FieldSize; i++ {
		out[i] = padByte
	}
	return out
}

// DecodeField trims the padding from a received field
func DecodeField(b []byte) string {
	s := strings.TrimRight(string(b), " \x00")
	s = strings.TrimLeft(s, " ")
	return strings.ToValidUTF8(s, "")
}

// Truncate cuts s to at most FieldSize bytes on a rune boundary
func Truncate(s string) string {
	if len(s) <= FieldSize {
		return s
	}
	n := FieldSize
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
