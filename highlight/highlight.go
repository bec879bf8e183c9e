// Package highlight renders paste content as syntax-highlighted HTML and
// detects languages for files submitted without a name. The engine never
// fails: content that matches no lexer is rendered as escaped plain text.
package highlight

import (
	"html"
	"strings"
	"unicode/utf8"
)

// Highlighter is the engine contract consumed by the paste service. The
// overrides map extends lexer selection per filename extension (".jinja" ->
// "Django/Jinja"); it is passed explicitly rather than held as global state.
type Highlighter interface {
	// Highlight returns the detected language name and the HTML markup for
	// content. filenameHint may be empty, in which case the language is
	// guessed from the content itself.
	Highlight(content []byte, filenameHint string, overrides map[string]string) (language, markup string)
}

// PreviewLines and PreviewBytes bound the highlighted preview of a paste's
// first file, capping highlighting cost on huge pastes.
const (
	PreviewLines = 10
	PreviewBytes = 2560
)

// PlainLanguage is the language reported when nothing better matches.
const PlainLanguage = "plaintext"

// languageExtensions maps detected language names to conventional file
// extensions, used to synthesize filenames for anonymous submissions.
var languageExtensions = map[string]string{
	"plaintext":  ".txt",
	"Python":     ".py",
	"JavaScript": ".js",
	"Bash":       ".sh",
	"CSS":        ".css",
	"SQL":        ".sql",
	"C++":        ".cpp",
	"Diff":       ".diff",
	"PowerShell": ".ps1",
	"HTML":       ".html",
	"JSON":       ".json",
	"YAML":       ".yaml",
	"Go":         ".go",
	"Markdown":   ".md",
}

// ExtensionForLanguage returns the conventional extension for a language
// name, or ".txt" when the language is unknown.
func ExtensionForLanguage(language string) string {
	if ext, ok := languageExtensions[language]; ok {
		return ext
	}
	return ".txt"
}

// PreviewSource bounds content to the first PreviewLines lines and
// PreviewBytes bytes, for feeding to a Highlighter.
func PreviewSource(content []byte) string {
	if len(content) > PreviewBytes {
		cut := PreviewBytes
		// Back off to a rune boundary so the cut cannot split a character.
		for cut > 0 && cut > PreviewBytes-utf8.UTFMax && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	text := strings.TrimSpace(string(content))
	lines := strings.Split(text, "\n")
	if len(lines) > PreviewLines {
		lines = lines[:PreviewLines]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// plainMarkup renders text as escaped preformatted HTML. It is the shared
// fallback for any path where real highlighting is unavailable.
func plainMarkup(text string) string {
	return `<pre class="highlight">` + html.EscapeString(text) + "</pre>\n"
}

// Plain is a Highlighter that performs no lexing at all. It backs tests and
// deployments that disable the chroma engine.
type Plain struct{}

// Highlight implements Highlighter.
func (Plain) Highlight(content []byte, filenameHint string, overrides map[string]string) (string, string) {
	return PlainLanguage, plainMarkup(string(content))
}
