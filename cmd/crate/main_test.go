package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crate/internal/cli"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "CRATE_") {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
	return env{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// run executes crate and returns stdout, stderr and the exit code.
func (e env) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return strings.TrimSpace(stdout.String()), stderr.String(), code
}

func TestResolveAndFind(t *testing.T) {
	e := newEnv(t)

	_, _, code := e.run(t, "find", "album", "Red", "--artist", "Taylor Swift")
	assert.Equal(t, cli.ExitUserError, code, "not found")

	id, _, code := e.run(t, "resolve", "album", "Red", "--artist", "Taylor Swift")
	require.Equal(t, cli.ExitSuccess, code)

	again, _, code := e.run(t, "resolve", "ALBUM", "Red", "--artist", "Taylor Swift")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, id, again)

	found, _, code := e.run(t, "find", "album", "Red", "--artist", "Taylor Swift")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, id, found)

	out, _, code := e.run(t, "--json", "describe", id)
	require.Equal(t, cli.ExitSuccess, code)
	var d map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "album", d["type"])
	assert.Equal(t, "Red", d["name"])
	assert.Equal(t, "Taylor Swift", d["artistName"])
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing context", []string{"resolve", "album", "Red"}, cli.ExitUserError},
		{"unknown type", []string{"resolve", "playlist", "Mix"}, cli.ExitUserError},
		{"bad id", []string{"describe", "abc"}, cli.ExitUserError},
		{"unknown item", []string{"describe", "999"}, cli.ExitUserError},
		{"bad score", []string{"review", "rate", "genre", "Jazz", "--user", "1", "--score", "11"}, cli.ExitUserError},
		{"missing score", []string{"review", "rate", "genre", "Jazz", "--user", "1"}, cli.ExitUserError},
		{"missing user", []string{"favorite", "add", "genre", "Jazz"}, cli.ExitUserError},
		{"empty list name", []string{"list", "create", "--user", "1", ""}, cli.ExitUserError},
		{"unknown list", []string{"list", "show", "missing", "--user", "1"}, cli.ExitUserError},
		{"unknown review", []string{"review", "remove", "7", "--user", "1"}, cli.ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := e.run(t, tt.args...)
			assert.Equal(t, tt.want, code, stderr)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestFavoriteCommands(t *testing.T) {
	e := newEnv(t)

	_, _, code := e.run(t, "favorite", "add", "track", "Closer", "--artist", "X", "--user", "3")
	require.Equal(t, cli.ExitSuccess, code)

	out, _, code := e.run(t, "favorite", "status", "track", "Closer", "--artist", "X", "--user", "3")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "true", out)

	out, _, code = e.run(t, "--json", "favorite", "list", "--user", "3")
	require.Equal(t, cli.ExitSuccess, code)
	var favs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &favs))
	assert.Len(t, favs, 1)

	out, _, code = e.run(t, "favorite", "remove", "track", "Closer", "--artist", "X", "--user", "3")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "favorite removed", out)
}

func TestReviewCommands(t *testing.T) {
	e := newEnv(t)

	_, _, code := e.run(t, "review", "rate", "venue", "Roundhouse", "--user", "1", "--score", "9", "--verified")
	require.Equal(t, cli.ExitSuccess, code)
	_, _, code = e.run(t, "review", "rate", "venue", "Roundhouse", "--user", "2", "--score", "5")
	require.Equal(t, cli.ExitSuccess, code)

	out, _, code := e.run(t, "review", "stats", "venue", "Roundhouse")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "verified:   9.00 (1)")
	assert.Contains(t, out, "unverified: 5.00 (1)")

	id, _, code := e.run(t, "find", "venue", "Roundhouse")
	require.Equal(t, cli.ExitSuccess, code)
	out, _, code = e.run(t, "review", "list", id)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "user 2")
}

func TestReviewMineAndRemove(t *testing.T) {
	e := newEnv(t)

	out, _, code := e.run(t, "--json", "review", "rate", "genre", "Jazz", "--user", "1", "--score", "0")
	require.Equal(t, cli.ExitSuccess, code, "zero is a valid score")
	var rev struct{ ID int64 }
	require.NoError(t, json.Unmarshal([]byte(out), &rev))
	reviewID := strconv.FormatInt(rev.ID, 10)

	itemID, _, code := e.run(t, "find", "genre", "Jazz")
	require.Equal(t, cli.ExitSuccess, code)

	out, _, code = e.run(t, "review", "mine", itemID, "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "0/10")

	_, _, code = e.run(t, "review", "mine", itemID, "--user", "2")
	assert.Equal(t, cli.ExitUserError, code, "user 2 has no review")

	_, _, code = e.run(t, "review", "remove", reviewID, "--user", "2")
	assert.Equal(t, cli.ExitUserError, code, "not the author")

	out, _, code = e.run(t, "review", "remove", reviewID, "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "review "+reviewID+" removed", out)

	_, _, code = e.run(t, "review", "mine", itemID, "--user", "1")
	assert.Equal(t, cli.ExitUserError, code)
}

func TestListCommands(t *testing.T) {
	e := newEnv(t)

	listID, _, code := e.run(t, "list", "create", "Favorites of 2024", "--user", "1", "--type", "album")
	require.Equal(t, cli.ExitSuccess, code)

	_, _, code = e.run(t, "list", "add", listID, "album", "Red", "--artist", "Taylor Swift", "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)

	_, _, code = e.run(t, "list", "add", listID, "genre", "Jazz", "--user", "1")
	assert.Equal(t, cli.ExitUserError, code, "typed list rejects other kinds")

	_, _, code = e.run(t, "list", "add", listID, "album", "1989", "--artist", "Taylor Swift", "--user", "2")
	assert.Equal(t, cli.ExitUserError, code, "not the owner")

	out, _, code := e.run(t, "list", "show", listID, "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "(album, 1 items)")

	_, _, code = e.run(t, "list", "show", listID, "--user", "2")
	assert.Equal(t, cli.ExitUserError, code, "lists are private to their owner")

	out, _, code = e.run(t, "list", "mine", "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, listID)
}

func TestListRenameAndDelete(t *testing.T) {
	e := newEnv(t)

	listID, _, code := e.run(t, "list", "create", "Draft", "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)

	_, _, code = e.run(t, "list", "rename", listID, "Summer", "--user", "2")
	assert.Equal(t, cli.ExitUserError, code)
	_, _, code = e.run(t, "list", "rename", listID, "", "--user", "1")
	assert.Equal(t, cli.ExitUserError, code)

	out, _, code := e.run(t, "list", "rename", listID, "Summer", "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "renamed to Summer")

	_, _, code = e.run(t, "list", "delete", listID, "--user", "2")
	assert.Equal(t, cli.ExitUserError, code)

	out, _, code = e.run(t, "list", "delete", listID, "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "list "+listID+" deleted", out)

	out, _, code = e.run(t, "list", "mine", "--user", "1")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "no lists", out)
}

func TestTagCommands(t *testing.T) {
	e := newEnv(t)

	_, _, code := e.run(t, "tag", "add", "42", "artist", "Björk")
	require.Equal(t, cli.ExitSuccess, code)

	out, _, code := e.run(t, "tag", "show", "42")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "artist")

	id, _, code := e.run(t, "find", "artist", "Björk")
	require.Equal(t, cli.ExitSuccess, code)
	out, _, code = e.run(t, "tag", "articles", id)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "42", out)

	out, _, code = e.run(t, "tag", "remove", "42", "artist", "Björk")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "tag removed", out)
}

func TestExportImportCommands(t *testing.T) {
	e := newEnv(t)
	_, _, code := e.run(t, "resolve", "track", "Closer", "--artist", "X", "--album", "Y")
	require.Equal(t, cli.ExitSuccess, code)

	path := filepath.Join(t.TempDir(), "items.jsonl")
	out, _, code := e.run(t, "export", path)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "exported 3 lines")

	other := newEnv(t)
	out, _, code = other.run(t, "import", path)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "resolved 3, skipped 0 of 3 lines", out)
}
