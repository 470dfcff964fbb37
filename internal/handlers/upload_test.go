package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedImageFile(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        bool
	}{
		{"burger.jpg", "image/jpeg", true},
		{"burger.jpeg", "image/jpeg", true},
		{"logo.png", "image/png", true},
		{"banner.gif", "image/gif", true},
		{"hero.webp", "image/webp", true},
		{"icon.svg", "image/svg+xml", true},
		{"LOGO.PNG", "image/png", true},
		{"notes.txt", "text/plain", false},
		{"script.js", "application/javascript", false},
		{"burger.jpg", "application/octet-stream", false},
		{"payload.png.exe", "image/png", false},
		{"noextension", "image/png", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AllowedImageFile(tt.filename, tt.contentType),
			"file %q type %q", tt.filename, tt.contentType)
	}
}
