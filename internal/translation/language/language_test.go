package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "en", want: "en"},
		{in: "en-US", want: "en"},
		{in: "pt_BR", want: "pt"},
		{in: " ES ", want: "es"},
		{in: "zh-Hant-TW", want: "zh"},
		{in: "", wantErr: true},
		{in: "xx-!!", wantErr: true},
		{in: "tlh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Spanish", Name("es"))
	assert.Equal(t, "Japanese", Name("ja"))
	assert.Equal(t, "qq", Name("qq"))
}

func TestSupported(t *testing.T) {
	langs := Supported()
	require.Len(t, langs, len(supportedCodes))

	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].Code, langs[i].Code)
	}

	var fr Language
	for _, l := range langs {
		if l.Code == "fr" {
			fr = l
		}
	}
	assert.Equal(t, "French", fr.Name)
	assert.Equal(t, "français", fr.NativeName)
	assert.True(t, IsSupported("de-AT"))
}

func TestFromName(t *testing.T) {
	tests := map[string]string{
		"english": "en",
		"German":  "de",
		"pt-BR":   "pt",
	}
	for in, want := range tests {
		got, ok := FromName(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := FromName("elvish")
	assert.False(t, ok)
}
