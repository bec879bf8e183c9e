package highlight

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEngineMatchesByFilename(t *testing.T) {
	e := NewEngine("")

	language, markup := e.Highlight([]byte("print('hi')\n"), "setup.py", nil)

	if language != "Python" {
		t.Errorf("expected language Python, got %q", language)
	}
	if markup == "" {
		t.Error("expected non-empty markup")
	}
}

func TestEngineCSSByFilename(t *testing.T) {
	e := NewEngine("")

	language, _ := e.Highlight([]byte("body { color: red; }"), "style.css", nil)

	if language != "CSS" {
		t.Errorf("expected language CSS, got %q", language)
	}
}

func TestEngineOverridesWinOverFilename(t *testing.T) {
	e := NewEngine("")
	overrides := map[string]string{".conf": "ini"}

	language, _ := e.Highlight([]byte("[section]\nkey = value\n"), "app.conf", overrides)

	if language != "INI" {
		t.Errorf("expected override to select INI, got %q", language)
	}
}

func TestEngineDetectsFromContent(t *testing.T) {
	e := NewEngine("")

	tests := []struct {
		content string
		want    string
	}{
		{"body { color: red; }", "CSS"},
		{`{"name": "pasty", "files": 2}`, "JSON"},
		{"--- a/old.txt\n+++ b/new.txt\n@@ -1 +1 @@\n-old\n+new\n", "Diff"},
		{"<!DOCTYPE html>\n<html><body>hi</body></html>\n", "HTML"},
	}

	for _, tt := range tests {
		// No filename and no overrides, so only the content can decide.
		language, _ := e.Highlight([]byte(tt.content), "", nil)
		if language != tt.want {
			t.Errorf("Highlight(%q) detected %q, want %q", tt.content, language, tt.want)
		}
	}
}

func TestEngineNeverFails(t *testing.T) {
	e := NewEngine("")

	// Arbitrary bytes with no filename and no recognizable structure must
	// still come back as markup.
	language, markup := e.Highlight([]byte{0x00, 0xff, 0xfe, 0x01}, "", nil)

	if language == "" {
		t.Error("expected a language name even for unrecognizable content")
	}
	if markup == "" {
		t.Error("expected non-empty markup for unrecognizable content")
	}
}

func TestPlainEscapesMarkup(t *testing.T) {
	_, markup := Plain{}.Highlight([]byte("<script>alert(1)</script>"), "", nil)

	if strings.Contains(markup, "<script>") {
		t.Errorf("expected escaped markup, got %q", markup)
	}
	if !strings.Contains(markup, "&lt;script&gt;") {
		t.Errorf("expected escaped content in markup, got %q", markup)
	}
}

func TestExtensionForLanguage(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"CSS", ".css"},
		{"Python", ".py"},
		{"PowerShell", ".ps1"},
		{PlainLanguage, ".txt"},
		{"NoSuchLanguage", ".txt"},
	}

	for _, tt := range tests {
		if got := ExtensionForLanguage(tt.language); got != tt.want {
			t.Errorf("ExtensionForLanguage(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}

func TestPreviewSourceBounds(t *testing.T) {
	long := strings.Repeat("line\n", 100)

	src := PreviewSource([]byte(long))

	if n := strings.Count(src, "\n"); n > PreviewLines-1 {
		t.Errorf("expected at most %d lines, got %d", PreviewLines, n+1)
	}

	huge := strings.Repeat("x", PreviewBytes*4)
	src = PreviewSource([]byte(huge))
	if len(src) > PreviewBytes {
		t.Errorf("expected at most %d bytes, got %d", PreviewBytes, len(src))
	}
}

func TestPreviewSourceKeepsRunesWhole(t *testing.T) {
	// A three-byte rune straddles the byte limit; the cut must not leave a
	// partial character behind.
	content := strings.Repeat("a", PreviewBytes-1) + "€€"

	src := PreviewSource([]byte(content))

	if !utf8.ValidString(src) {
		t.Errorf("expected valid UTF-8 preview, got %q", src[len(src)-8:])
	}
	if want := strings.Repeat("a", PreviewBytes-1); src != want {
		t.Errorf("expected %d bytes of preview, got %d", len(want), len(src))
	}
}

func TestPreviewSourceShortContent(t *testing.T) {
	if got := PreviewSource([]byte("  foo bar baz  ")); got != "foo bar baz" {
		t.Errorf("expected trimmed content, got %q", got)
	}
	if got := PreviewSource(nil); got != "" {
		t.Errorf("expected empty preview for empty content, got %q", got)
	}
}
