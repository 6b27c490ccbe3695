package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/notes/internal/app"
	"github.com/fsdevblog/notes/internal/app/config"
	"github.com/fsdevblog/notes/internal/app/db"
)

type cli struct {
	t   *testing.T
	api string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a, err := app.New(config.Config{DBType: db.StorageTypeInMemory, Logger: logger})
	require.NoError(t, err)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	t.Setenv("NOTES_HOME", t.TempDir())
	t.Setenv("NOTES_CHECK_DEBOUNCE", "1ms")
	t.Setenv("NOTES_PROFILE", "default")
	return &cli{t: t, api: srv.URL}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{"--api", c.api}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(stdin string, args ...string) string {
	c.t.Helper()
	out, err := c.run(stdin, args...)
	require.NoError(c.t, err)
	return out
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(""), &out, io.Discard)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Build version: N/A")
}

func TestCheck(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "free is available\n", c.mustRun("", "check", "free"))
	assert.Contains(t, c.mustRun("", "check", "bad url"), "Only letters, numbers, hyphens, and underscores allowed")

	c.mustRun("<p>hi</p>", "create", "--url", "busy")
	assert.Contains(t, c.mustRun("", "check", "busy"), "This URL is already taken")
}

func TestCreateViewEdit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("<p>hello</p>", "create", "--url", "hello", "--expires", "1h")
	assert.Contains(t, out, "Created /hello")
	assert.Contains(t, out, "Expires at")

	_, err := c.run("<p>again</p>", "create", "--url", "hello")
	require.ErrorIs(t, err, errNotAvailable)

	out = c.mustRun("", "view", "hello", "--raw")
	assert.Contains(t, out, "/hello by anonymous (editable)")
	assert.Contains(t, out, "<p>hello</p>")

	out = c.mustRun("", "view", "hello", "--style", "notty")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "<p>")

	assert.Contains(t, c.mustRun("", "whoami"), "/hello")
	assert.Contains(t, c.mustRun("", "list"), "/hello")

	// другой профиль не владеет заметкой
	_, err = c.run("<p>hijack</p>", "--profile", "other", "edit", "hello")
	require.ErrorIs(t, err, errNotEditable)

	c.mustRun("<p>second</p>", "edit", "hello")
	out = c.mustRun("", "view", "hello", "--raw")
	assert.Contains(t, out, "<p>second</p>")
	assert.NotContains(t, out, "anonymous")

	out = c.mustRun("", "history", "hello")
	assert.Contains(t, out, "0\t")
	assert.Contains(t, out, "hello")

	assert.Equal(t, "<p>hello</p>\n", c.mustRun("", "history", "hello", "--restore", "0"))

	assert.Contains(t, c.mustRun("", "history", "hello", "--restore", "0", "--save"), "Restored version 0")
	out = c.mustRun("", "view", "hello", "--raw")
	assert.Contains(t, out, "<p>hello</p>")
}

func TestReply(t *testing.T) {
	c := newCLI(t)
	c.mustRun("<p>question</p>", "create", "--url", "topic", "--expires", "never")

	assert.Contains(t, c.mustRun("<p>answer</p>", "reply", "topic"), "Replied /")

	_, err := c.run("   ", "reply", "topic")
	require.Error(t, err)

	out := c.mustRun("", "view", "topic", "--raw")
	assert.Contains(t, out, "> reply /")
	assert.Contains(t, out, "<p>answer</p>")
	assert.NotContains(t, out, "Expires at")
}

func TestViewMissing(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "view", "nothing-here")
	require.ErrorIs(t, err, errNotFound)
	_, err = c.run("<p>x</p>", "edit", "nothing-here")
	require.ErrorIs(t, err, errNotFound)
}

func TestCreate_InvalidParent(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("<p>x</p>", "create", "--parent", "-1")
	require.ErrorIs(t, err, errInvalidParent)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Hello world", preview("<p>Hello</p>\n<p><b>world</b></p>"))
	assert.Equal(t, strings.Repeat("a", 60)+"...", preview("<p>"+strings.Repeat("a", 80)+"</p>"))
}

func TestBadAPIURLClosesProfile(t *testing.T) {
	t.Setenv("NOTES_HOME", t.TempDir())

	s := &session{in: strings.NewReader(""), out: io.Discard}
	root := buildRootCmd(s, io.Discard)
	root.SetArgs([]string{"--api", "ftp://example.com", "whoami"})

	require.Error(t, root.ExecuteContext(context.Background()))
	assert.Nil(t, s.store)
}
