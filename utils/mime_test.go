package utils

import "testing"

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"example.txt", "text/plain"},
		{"example.jpg", "image/jpeg"},
		{"example.html", "text/html"},
		{"example.json", "application/json"},
		{"example.yaml", "application/x-yaml"},
		{"example.yml", "application/x-yaml"},
		{"example.js", "application/javascript"},
		{"example", "text/plain"},
		{"example.nosuchext", "text/plain"},
		{"", "text/plain"},
		{"EXAMPLE.JSON", "application/json"},
	}

	for _, tt := range tests {
		if got := DetectContentType(tt.filename); got != tt.want {
			t.Errorf("DetectContentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestIsTextContent(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/plain", true},
		{"text/html", true},
		{"application/json", true},
		{"application/x-yaml", true},
		{"image/jpeg", false},
		{"application/octet-stream", false},
	}

	for _, tt := range tests {
		if got := IsTextContent(tt.contentType); got != tt.want {
			t.Errorf("IsTextContent(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
