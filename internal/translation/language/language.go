// Package language validates and names the language codes accepted by the
// translation endpoints.
package language

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var ErrUnsupported = errors.New("unsupported language")

// Language describes a supported language.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

var supportedCodes = []string{
	"ar", "bn", "cs", "da", "de", "el", "en", "es", "fa", "fi", "fr", "he", "hi", "hu", "id",
	"it", "ja", "ko", "ms", "nl", "pl", "pt", "ro", "ru", "sv", "sw", "th", "tr", "uk",
	"ur", "vi", "zh",
}

var supported = func() map[string]language.Tag {
	m := make(map[string]language.Tag, len(supportedCodes))
	for _, code := range supportedCodes {
		m[code] = language.MustParse(code)
	}
	return m
}()

// Normalize parses a BCP 47 tag and returns its supported base code,
// e.g. "en-US" -> "en", "PT_br" -> "pt".
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupported)
	}

	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, code)
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, code)
	}
	if _, ok := supported[base.String()]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, code)
	}
	return base.String(), nil
}

// IsSupported reports whether code normalizes to a supported language.
func IsSupported(code string) bool {
	_, err := Normalize(code)
	return err == nil
}

// FromName resolves a language given as a code or an English display name,
// e.g. "english" -> "en" as reported by speech transcription.
func FromName(name string) (string, bool) {
	if code, err := Normalize(name); err == nil {
		return code, true
	}
	name = strings.TrimSpace(name)
	for code, tag := range supported {
		if strings.EqualFold(display.English.Languages().Name(tag), name) {
			return code, true
		}
	}
	return "", false
}

// Name returns the English display name, or the code itself if unknown.
func Name(code string) string {
	tag, ok := supported[code]
	if !ok {
		return code
	}
	return display.English.Languages().Name(tag)
}

// Supported lists all languages sorted by code.
func Supported() []Language {
	out := make([]Language, 0, len(supported))
	for code, tag := range supported {
		out = append(out, Language{
			Code:       code,
			Name:       display.English.Languages().Name(tag),
			NativeName: display.Self.Name(tag),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
