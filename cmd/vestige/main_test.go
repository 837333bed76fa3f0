package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"vestige", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	app := newApp()
	app.Writer = io.Discard
	err := app.Run([]string{"vestige", "--log-level", "chatty", "agents"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestStoreGetListGrep(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	out, err := run(t, "--db", db, "store", "--title", "Gate", "--meta", "source=web", "The morning gates opened")
	require.NoError(t, err)
	digest := core.DigestFromContent("The morning gates opened")
	assert.Equal(t, string(digest)+" version 1\n", out)

	out, err = run(t, "--db", db, "store", "The morning gates opened")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")

	_, err = run(t, "--db", db, "store", "Evening bells rang")
	require.NoError(t, err)

	out, err = run(t, "--db", db, "get", string(digest))
	require.NoError(t, err)
	assert.Contains(t, out, "version:   2")
	assert.Contains(t, out, "The morning gates opened")

	out, err = run(t, "--db", db, "list", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening bells rang")
	assert.NotContains(t, out, "morning")

	out, err = run(t, "--db", db, "grep", "GATES")
	require.NoError(t, err)
	assert.Contains(t, out, digest.Short())
	assert.NotContains(t, out, "Evening")

	_, err = run(t, "--db", db, "get", string(core.DigestFromContent("missing")))
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "--db", db, "store", "--meta", "novalue", "body")
	assert.ErrorContains(t, err, "invalid key=value")

	_, err = run(t, "--db", db, "get")
	assert.ErrorContains(t, err, "requires 1 argument")
}

func TestSearchFeedbackStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")
	for _, body := range []string{"The morning gates opened", "Evening bells rang over the harbor"} {
		_, err := run(t, "--db", db, "store", body)
		require.NoError(t, err)
	}

	out, err := run(t, "--db", db, "search", "--results", "3", "morning gates")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "(similarity)")
	assert.Equal(t, "Found 1 hits", lines[1])
	searchID := strings.Fields(lines[0])[1]

	digest := string(core.DigestFromContent("The morning gates opened"))
	out, err = run(t, "--db", db, "feedback", searchID, digest, "0.8")
	require.NoError(t, err, "search id survives between invocations")
	assert.Equal(t, "recorded feedback\n", out)

	_, err = run(t, "--db", db, "feedback", searchID, digest, "1.8")
	assert.ErrorIs(t, err, core.ErrInvalidFeedbackScore)

	_, err = run(t, "--db", db, "feedback", searchID, digest, "high")
	assert.ErrorContains(t, err, "invalid score")

	out, err = run(t, "--db", db, "search", "morning gate")
	require.NoError(t, err)
	assert.Contains(t, out, "(reranked)")

	out, err = run(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "documents:        2")
	assert.Contains(t, out, "searches:         2")
	assert.Contains(t, out, "feedback events:  1")
	assert.Contains(t, out, "average feedback: 0.800")
}

func TestReviewDeleteAgentsOutputs(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")
	_, err := run(t, "--db", db, "store", "draft body")
	require.NoError(t, err)
	digest := string(core.DigestFromContent("draft body"))

	out, err := run(t, "--db", db, "review", "--feedback", "good", "--approved", digest)
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")

	out, err = run(t, "--db", db, "get", digest)
	require.NoError(t, err)
	assert.Contains(t, out, "meta:      approved=true")
	assert.Contains(t, out, "meta:      human_feedback=good")

	_, err = run(t, "--db", db, "delete", digest)
	assert.ErrorIs(t, err, storage.ErrDeletionUnsupported)

	out, err = run(t, "--db", db, "agents")
	require.NoError(t, err)
	assert.Equal(t, "reviewer\nwriter\n", out)

	out, err = run(t, "--db", db, "outputs", digest)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	file := filepath.Join(dir, "sentences.txt")
	require.NoError(t, os.WriteFile(file, []byte("A gentle breeze rustled the leaves.\n\nRain drummed on the rooftop.\n"), 0o600))

	out, err := run(t, "--db", db, "ingest", "--lines", file)
	require.NoError(t, err)
	assert.Contains(t, out, "sentences.txt:1")
	assert.Contains(t, out, "sentences.txt:3")

	out, err = run(t, "--db", db, "ingest", file)
	require.NoError(t, err)
	assert.Contains(t, out, "sentences.txt")

	out, err = run(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "documents:        3")

	_, err = run(t, "--db", db, "ingest", filepath.Join(dir, "missing.txt"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"style=casual", "instructions=keep it = short"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"style": "casual", "instructions": "keep it = short"}, got)

	got, err = parsePairs(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parsePairs([]string{"=x"})
	assert.Error(t, err)
}
