package parser

import "strings"

// shortcodeEmoji maps recognized ":name:" shortcodes to their UTF-8
// emoji. Unrecognized names pass through unchanged.
var shortcodeEmoji = map[string]string{
	"thumbsup":         "\U0001F44D",
	"+1":               "\U0001F44D",
	"thumbsdown":       "\U0001F44E",
	"-1":               "\U0001F44E",
	"wave":             "\U0001F44B",
	"fire":             "\U0001F525",
	"rocket":           "\U0001F680",
	"sparkles":         "✨",
	"tada":             "\U0001F389",
	"smile":            "\U0001F604",
	"heart":            "❤️",
	"white_check_mark": "✅",
	"x":                "❌",
	"warning":          "⚠️",
	"thinking":         "\U0001F914",
	"clap":             "\U0001F44F",
	"eyes":             "\U0001F440",
	"point_up":         "☝️",
	"point_right":      "\U0001F449",
	"point_left":       "\U0001F448",
	"point_down":       "\U0001F447",
	"100":              "\U0001F4AF",
}

// normalizeEmojiShortcodes walks source and replaces every
// ":[A-Za-z0-9_+-]+:" run recognized by shortcodeEmoji with its emoji.
func normalizeEmojiShortcodes(source string) string {
	var b strings.Builder
	b.Grow(len(source))

	i := 0
	for i < len(source) {
		if source[i] != ':' {
			b.WriteByte(source[i])
			i++
			continue
		}

		j := i + 1
		for j < len(source) && isShortcodeNameByte(source[j]) {
			j++
		}
		if j > i+1 && j < len(source) && source[j] == ':' {
			if emoji, ok := shortcodeEmoji[source[i+1:j]]; ok {
				b.WriteString(emoji)
				i = j + 1
				continue
			}
		}

		b.WriteByte(source[i])
		i++
	}

	return b.String()
}

func isShortcodeNameByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') || c == '_' || c == '+' || c == '-'
}
