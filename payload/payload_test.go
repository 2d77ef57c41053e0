package payload

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/types"
)

func TestRandomASCII(t *testing.T) {
	b, err := RandomASCII(100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got, want := len(b), 100; got != want {
		t.Fatalf("Expected %d bytes, got %d", want, got)
	}
	for i, c := range b {
		if !strings.ContainsRune(Alphabet, rune(c)) {
			t.Errorf("Byte %d: %q is not in the alphabet", i, c)
		}
	}

	if b, err := RandomASCII(0); err != nil || len(b) != 0 {
		t.Errorf("Expected empty payload, got %d bytes, err=%v", len(b), err)
	}
	if _, err := RandomASCII(-1); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	Seed(42)
	a, _ := RandomASCII(64)
	ta := ANSITruecolor()
	Seed(42)
	b, _ := RandomASCII(64)
	tb := ANSITruecolor()
	if string(a) != string(b) {
		t.Error("Expected identical ASCII payloads for the same seed")
	}
	if ta != tb {
		t.Error("Expected identical truecolor payloads for the same seed")
	}
}

func TestLines(t *testing.T) {
	got, err := Lines(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := "xxx\nxxx\nxxx\nxxx\nxxx"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got, err = Lines(1000, DefaultLineLength)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, "\n"); n != 999 {
		t.Errorf("Expected 999 newlines, got %d", n)
	}
	if got, want := len(got), 1000*81-1; got != want {
		t.Errorf("Expected %d bytes, got %d", want, got)
	}

	if got, _ := Lines(0, 80); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
	for _, args := range [][2]int{{-1, 80}, {3, -1}} {
		if _, err := Lines(args[0], args[1]); !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("Lines(%d, %d): expected ErrInvalidArgument, got %v", args[0], args[1], err)
		}
	}
}

func TestUnicodeCatalogs(t *testing.T) {
	cases := UnicodeCases()
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	if got, want := strings.Join(names, ","),
		"emoji_variation_selectors,zwj_sequences,skin_tone_modifiers,surrogate_pairs,cjk_characters,mixed_content"; got != want {
		t.Errorf("Expected cases %s, got %s", want, got)
	}

	for _, c := range cases {
		s := c.Generate()
		if !utf8.ValidString(s) {
			t.Errorf("%s: invalid UTF-8", c.Name)
		}
		if s != c.Generate() {
			t.Errorf("%s: expected deterministic output", c.Name)
		}
	}

	if got, want := strings.Count(EmojiVariationSelectors(), "\uFE0F"), 1700; got != want {
		t.Errorf("Expected %d variation selectors, got %d", want, got)
	}
	if got, want := strings.Count(ZWJSequences(), "\u200D"), (3+14)*50; got != want {
		t.Errorf("Expected %d joiners, got %d", want, got)
	}
	if got, want := utf8.RuneCountInString(SkinToneModifiers()), 8*5*10*2; got != want {
		t.Errorf("Expected %d runes, got %d", want, got)
	}

	pairs := SurrogatePairs()
	if got, want := utf8.RuneCountInString(pairs), 2500; got != want {
		t.Errorf("Expected %d runes, got %d", want, got)
	}
	for _, r := range pairs {
		if r < 0x10000 {
			t.Fatalf("Expected only code points above U+FFFF, got %U", r)
		}
	}

	if got, want := strings.Count(MixedContent(), "\n"), 800; got != want {
		t.Errorf("Expected %d lines, got %d", want, got)
	}
	if got, want := utf8.RuneCountInString(CJKCharacters()), utf8.RuneCountInString(cjkText)*100; got != want {
		t.Errorf("Expected %d runes, got %d", want, got)
	}
}

func TestANSI256Colors(t *testing.T) {
	s := ANSI256Colors()
	if got, want := CountIntroducers(s), 2560; got != want {
		t.Errorf("Expected %d introducers, got %d", want, got)
	}
	// one introducer and one reset per glyph
	if got, want := CountEscapes(s), 5120; got != want {
		t.Errorf("Expected %d escapes, got %d", want, got)
	}
	if !strings.HasPrefix(s, "\x1b[38;5;0m█\x1b[0m\x1b[38;5;1m") {
		t.Errorf("Expected palette to start at index 0, got %q", s[:24])
	}
	if !strings.Contains(s, "\x1b[38;5;255m█\x1b[0m") {
		t.Error("Expected palette index 255")
	}
}

func TestANSITruecolor(t *testing.T) {
	s := ANSITruecolor()
	if got, want := CountIntroducers(s), 1000; got != want {
		t.Errorf("Expected %d introducers, got %d", want, got)
	}
	if got, want := strings.Count(s, "█"), 1000; got != want {
		t.Errorf("Expected %d glyphs, got %d", want, got)
	}
}
