package payload

import (
	"strconv"
	"strings"
)

// ColorIntroducer starts every foreground color sequence emitted by
// ANSI256Colors and ANSITruecolor. Resets are not introducers.
const ColorIntroducer = "\x1b[38;"

const (
	block = "█"
	reset = "\x1b[0m"
)

// ANSI256Colors returns one block glyph in each palette color 0..255,
// each followed by a reset, the whole run repeated 10 times.
func ANSI256Colors() string {
	var b strings.Builder
	for i := 0; i < 256; i++ {
		b.WriteString(ColorIntroducer)
		b.WriteString("5;")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('m')
		b.WriteString(block)
		b.WriteString(reset)
	}
	return strings.Repeat(b.String(), 10)
}

// ANSITruecolor returns 1000 block glyphs, each in a random 24-bit
// color and followed by a reset.
func ANSITruecolor() string {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString(ColorIntroducer)
		b.WriteString("2;")
		b.WriteString(strconv.Itoa(intn(256)))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(intn(256)))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(intn(256)))
		b.WriteByte('m')
		b.WriteString(block)
		b.WriteString(reset)
	}
	return b.String()
}

// CountIntroducers returns how many color sequences s starts.
func CountIntroducers(s string) int {
	return strings.Count(s, ColorIntroducer)
}

// CountEscapes returns how many ESC bytes s holds.
func CountEscapes(s string) int {
	return strings.Count(s, "\x1b")
}
