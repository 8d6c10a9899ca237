package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	if got := GetEmoji("rings"); got != "💍" {
		t.Errorf("Expected ring emoji, got %q", got)
	}
	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Fatal("Expected emoji to be disabled")
	}
	if got := GetEmoji("rings"); got != "[*]" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := GetEmoji("nope"); got != "[?]" {
		t.Errorf("Expected unknown marker, got %q", got)
	}
}

func TestForResponse(t *testing.T) {
	SetEmojiDisabled(true)
	defer SetEmojiDisabled(false)

	tests := map[string]string{"yes": "[YES]", "no": "[NO]", "N/A": "[N/A]", "": "[N/A]"}
	for in, want := range tests {
		if got := ForResponse(in); got != want {
			t.Errorf("ForResponse(%q): Expected %q, got %q", in, want, got)
		}
	}
}
