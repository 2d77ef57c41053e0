package payload

import (
	"strings"
)

// CatalogVersion identifies the literal tables below. Bump it whenever
// a table changes so stored results can be told apart.
const CatalogVersion = 1

// Each table is written with explicit escapes so that invisible code
// points (U+FE0F, U+200D) stay reviewable.
var (
	// Emoji followed by the emoji presentation selector U+FE0F.
	variationSelectorEmoji = []string{
		"☁\uFE0F", "☀\uFE0F", "⭐\uFE0F", "❤\uFE0F",
		"✨\uFE0F", "⚡\uFE0F", "⚠\uFE0F", "✅\uFE0F",
		"❌\uFE0F", "☑\uFE0F", "✔\uFE0F", "➡\uFE0F",
		"⬅\uFE0F", "⬆\uFE0F", "⬇\uFE0F", "↗\uFE0F",
		"↘\uFE0F",
	}

	// Sequences glued with the zero width joiner U+200D.
	zwjSequences = []string{
		"\U0001F468\u200D\U0001F469\u200D\U0001F467\u200D\U0001F466",
		"\U0001F468\u200D\U0001F4BB",
		"\U0001F469\u200D\U0001F52C",
		"\U0001F9D1\u200D\U0001F680",
		"\U0001F468\u200D\U0001F3A8",
		"\U0001F469\u200D\U0001F3EB",
		"\U0001F9D1\u200D⚕\uFE0F",
		"\U0001F468\u200D\U0001F373",
		"\U0001F469\u200D\U0001F33E",
		"\U0001F9D1\u200D\U0001F527",
		"\U0001F468\u200D\U0001F3ED",
		"\U0001F469\u200D\U0001F4BC",
		"\U0001F9D1\u200D\U0001F3A4",
		"\U0001F468\u200D✈\uFE0F",
		"\U0001F469\u200D\U0001F692",
	}

	skinToneBases = []string{
		"\U0001F44D", "\U0001F44E", "\U0001F44B", "✋",
		"\U0001F91A", "\U0001F590", "✌", "\U0001F91E",
	}

	// Fitzpatrick modifiers U+1F3FB..U+1F3FF.
	skinToneModifiers = []string{
		"\U0001F3FB", "\U0001F3FC", "\U0001F3FD", "\U0001F3FE", "\U0001F3FF",
	}

	// Code points outside the basic multilingual plane.
	astralCodePoints = []string{
		// mathematical bold fraktur
		"\U0001D573", "\U0001D58A", "\U0001D591", "\U0001D591", "\U0001D594",
		// mathematical script
		"\U0001D49C", "\U0001D49E", "\U0001D49F", "\U0001D4A2", "\U0001D4A5",
		"\U0001F3AD", "\U0001F3AA", "\U0001F3AB", "\U0001F3AC", "\U0001F3AF",
		// mahjong tiles
		"\U0001F000", "\U0001F001", "\U0001F002", "\U0001F003", "\U0001F004",
		// egyptian hieroglyphs
		"\U00013000", "\U00013001", "\U00013002", "\U00013003", "\U00013004",
	}

	cjkText = "你好世界中文日本語한국어漢字平仮名カタカナ"

	mixedLines = []string{
		"Normal ASCII text\n",
		"\U0001F3A8 Emoji: \U0001F468\u200D\U0001F469\u200D\U0001F467\u200D\U0001F466 family, ❤\uFE0F heart, ☀\uFE0F sun\n",
		"中文 日本語 한국어\n",
		"\x1b[31mRed\x1b[0m \x1b[32mGreen\x1b[0m \x1b[34mBlue\x1b[0m\n",
		"Mathematical: \U0001D573\U0001D58A\U0001D591\U0001D591\U0001D594\n",
		"Combining: é = e\u0301\n",
		"Box drawing: ┌─┬─┐ │ │ │ └─┴─┘\n",
		"Powerline: \uE0B0 \uE0B1 \uE0B2 \uE0B3\n",
	}
)

func repeat(parts []string, times int) string {
	return strings.Repeat(strings.Join(parts, ""), times)
}

// EmojiVariationSelectors returns 17 emoji with presentation
// selectors, repeated 100 times.
func EmojiVariationSelectors() string { return repeat(variationSelectorEmoji, 100) }

// ZWJSequences returns 15 joined emoji sequences, repeated 50 times.
func ZWJSequences() string { return repeat(zwjSequences, 50) }

// SkinToneModifiers returns every base emoji combined with every
// skin tone modifier, the block repeated 10 times.
func SkinToneModifiers() string {
	combined := make([]string, 0, len(skinToneBases)*len(skinToneModifiers))
	for _, base := range skinToneBases {
		for _, mod := range skinToneModifiers {
			combined = append(combined, base+mod)
		}
	}
	return repeat(combined, 10)
}

// SurrogatePairs returns 25 code points above U+FFFF, repeated 100
// times.
func SurrogatePairs() string { return repeat(astralCodePoints, 100) }

// CJKCharacters returns a line of Chinese, Japanese and Korean text
// repeated 100 times.
func CJKCharacters() string { return strings.Repeat(cjkText, 100) }

// MixedContent returns eight lines mixing ASCII, emoji, CJK, color
// escapes, combining marks and box drawing, repeated 100 times.
func MixedContent() string { return repeat(mixedLines, 100) }

// UnicodeCase is one named Unicode stress payload.
type UnicodeCase struct {
	Name     string
	Generate func() string
}

// UnicodeCases returns the Unicode stress payloads in reporting order.
func UnicodeCases() []UnicodeCase {
	return []UnicodeCase{
		{"emoji_variation_selectors", EmojiVariationSelectors},
		{"zwj_sequences", ZWJSequences},
		{"skin_tone_modifiers", SkinToneModifiers},
		{"surrogate_pairs", SurrogatePairs},
		{"cjk_characters", CJKCharacters},
		{"mixed_content", MixedContent},
	}
}
