package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/injector"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := CreateRootCommand(NewFlags())

	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCreateRootCommand(t *testing.T) {
	cmd := CreateRootCommand(NewFlags())
	assert.Equal(t, "translate", cmd.Use)

	for _, name := range []string{"config", "verbose", "provider"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}

	subcommands := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"text", "file", "languages"} {
		assert.True(t, subcommands[name], "subcommand %s", name)
	}
}

func TestTextCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "", "--provider", "offline", "text", "--to", "es", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "hola mundo\n", stdout)
	assert.Contains(t, stderr, "offline fallback used")
}

func TestTextCommandReadsStdin(t *testing.T) {
	stdout, _, err := execute(t, "hello\n", "--provider", "offline", "text", "--from", "en", "--to", "fr")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bonjour")
}

func TestTextCommandErrors(t *testing.T) {
	_, _, err := execute(t, "", "--provider", "offline", "text", "hello")
	assert.Error(t, err, "--to is required")

	_, _, err = execute(t, "", "--provider", "offline", "text", "--to", "klingon", "hello")
	assert.ErrorIs(t, err, biz.ErrInvalidLanguage)

	_, _, err = execute(t, "   ", "--provider", "offline", "text", "--to", "es")
	assert.ErrorIs(t, err, biz.ErrEmptyInput)
}

func TestFileCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# hello\n\nhello world"), 0o644))
	dst := filepath.Join(dir, "notes.es.html")

	stdout, stderr, err := execute(t, "", "--provider", "offline", "file", src, "--to", "es", "--html", "-o", dst)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "notes.md")
	assert.Contains(t, stderr, "100%")

	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1")
	assert.Contains(t, string(out), "hola mundo")
}

func TestFileCommandStdout(t *testing.T) {
	src := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	stdout, _, err := execute(t, "", "--provider", "offline", "file", src, "--to", "de")
	require.NoError(t, err)
	assert.Equal(t, "hallo\n", stdout)
}

func TestFileCommandStripMarkdown(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# hello\n\nhello **world**"), 0o644))

	stdout, _, err := execute(t, "", "--provider", "offline", "file", src, "--to", "es")
	require.NoError(t, err)
	assert.Contains(t, stdout, "#")

	stdout, _, err = execute(t, "", "--provider", "offline", "file", src, "--to", "es", "--strip-markdown")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "#")
	assert.NotContains(t, stdout, "**")
	assert.Contains(t, stdout, "mundo")
}

func TestFileCommandMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "--provider", "offline", "file", filepath.Join(t.TempDir(), "nope.txt"), "--to", "de")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLanguagesCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "languages")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.Contains(t, stdout, "Spanish")
}

func TestBuilderErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	cmd := createRootCommand(NewFlags(), func(*conf.Config, *logger.Logger) (*injector.Translator, func(), error) {
		return nil, nil, boom
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"text", "--to", "es", "hi"})

	assert.ErrorIs(t, cmd.Execute(), boom)
}
