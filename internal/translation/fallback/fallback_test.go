package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tr := New()

	tests := []struct {
		name   string
		text   string
		source string
		target string
		want   string
	}{
		{"dictionary hit", "hello", "en", "es", "hola"},
		{"same language", "hello", "en", "en", "hello"},
		{"same language with region", "hello", "en-US", "en", "hello"},
		{"target english", "hola", "es", "en", MarkerFallback + "hola"},
		{"non english source", "hola", "es", "fr", MarkerUnsupported + "hola"},
		{"no substitution", "xyz123", "en", "es", MarkerUntranslated + "xyz123"},
		{"unknown target", "hello", "en", "sw", MarkerUntranslated + "hello"},
		{"case insensitive keeps capital", "Hello world", "en", "es", "Hola mundo"},
		{"longest phrase first", "good morning friend", "en", "es", "buenos días amigo"},
		{"whole words only", "hellothere", "en", "es", MarkerUntranslated + "hellothere"},
		{"punctuation preserved", "Thank you, friend!", "en", "fr", "Merci, ami!"},
		{"upper-case source code", "hello", "EN", "DE", "hallo"},
		{"cjk target", "thank you", "en", "zh", "谢谢"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Translate(tt.text, tt.source, tt.target))
		})
	}
}

func TestUntranslatedMarkerContainsOriginal(t *testing.T) {
	out := New().Translate("xyz123", "en", "es")
	assert.True(t, strings.HasPrefix(out, MarkerUntranslated))
	assert.Contains(t, out, "xyz123")
}

func TestCustomDictionary(t *testing.T) {
	tr := NewWithDictionary(Dictionary{
		"nl": {"Hello": "hallo", "good day": "goedendag"},
		"xx": {},
	})

	assert.Equal(t, "hallo", tr.Translate("hello", "en", "nl"))
	assert.Equal(t, "Goedendag!", tr.Translate("Good day!", "en", "nl"))
	assert.Equal(t, []string{"nl"}, tr.Languages())
}

func TestLanguages(t *testing.T) {
	langs := New().Languages()
	assert.Contains(t, langs, "es")
	assert.Contains(t, langs, "ja")
}
