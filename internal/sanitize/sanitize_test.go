package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interworky/error-tracker/internal/model"
)

func TestStripCredentials(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no-query", "https://shop.example.com/cart", "https://shop.example.com/cart"},
		{"no-sensitive-params", "https://shop.example.com/cart?page=2", "https://shop.example.com/cart?page=2"},
		{"token-removed", "https://shop.example.com/cart?token=abc&page=2", "https://shop.example.com/cart?page=2"},
		{"case-insensitive", "https://x.io/?Password=p&Secret=s&KEY=k", "https://x.io/"},
		{"similar-names-kept", "https://x.io/?api_key=1&monkey=2", "https://x.io/?api_key=1&monkey=2"},
		{"not-a-url", "app.js", "app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCredentials(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "abc"+TruncationMarker, Truncate("abcdef", 3))
	// counts runes, not bytes
	assert.Equal(t, "에러"+TruncationMarker, Truncate("에러메시지", 2))
}

func TestMetadata(t *testing.T) {
	got := Metadata(map[string]string{
		"Password": "hunter2",
		"token":    "t",
		"auth":     "bearer",
		"route":    "/checkout",
		"keyboard": "qwerty",
	})
	assert.Equal(t, map[string]string{"route": "/checkout", "keyboard": "qwerty"}, got)
	assert.Nil(t, Metadata(nil))
}

func TestReportBoundsFields(t *testing.T) {
	in := model.ErrorReport{
		Message:    strings.Repeat("m", model.MaxMessageLength+10),
		StackTrace: strings.Repeat("s", model.MaxStackTraceLength+1),
		SourceFile: "https://cdn.example.com/app.js?key=1",
		URL:        "https://shop.example.com/?secret=s&q=shoes",
		UserAgent:  "Mozilla/5.0\x00",
		Metadata:   map[string]string{"secret": "x"},
	}

	out := Report(in)

	assert.Equal(t, model.MaxMessageLength+len(TruncationMarker), len(out.Message))
	assert.True(t, strings.HasSuffix(out.Message, TruncationMarker))
	assert.True(t, strings.HasSuffix(out.StackTrace, TruncationMarker))
	assert.Equal(t, "https://cdn.example.com/app.js", out.SourceFile)
	assert.Equal(t, "https://shop.example.com/?q=shoes", out.URL)
	assert.Equal(t, "Mozilla/5.0", out.UserAgent)
	assert.Empty(t, out.Metadata)

	// input untouched
	assert.Equal(t, "https://shop.example.com/?secret=s&q=shoes", in.URL)
}
