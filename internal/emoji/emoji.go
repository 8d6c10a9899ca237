package emoji

import "sync/atomic"

// [emoji, fallback]
var emojiMap = map[string][2]string{
	"rings":      {"💍", "[*]"},
	"calendar":   {"📅", "[DATE]"},
	"clock":      {"🕔", "[TIME]"},
	"pin":        {"📍", "[AT]"},
	"guests":     {"👥", "[GUESTS]"},
	"household":  {"🏠", "[HOME]"},
	"mail":       {"✉️", "[MAIL]"},
	"phone":      {"📞", "[TEL]"},
	"yes":        {"✅", "[YES]"},
	"no":         {"❌", "[NO]"},
	"unknown":    {"❔", "[N/A]"},
	"note":       {"📝", "[NOTE]"},
	"statistics": {"📊", "[STATS]"},
	"success":    {"✅", "[OK]"},
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"globe":      {"🌐", "[LANG]"},
	"door":       {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled switches every lookup to the plain-text fallbacks.
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns the emoji for key, or its fallback when emoji are off.
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForResponse picks the symbol for an RSVP answer.
func ForResponse(response string) string {
	switch response {
	case "yes":
		return GetEmoji("yes")
	case "no":
		return GetEmoji("no")
	default:
		return GetEmoji("unknown")
	}
}
