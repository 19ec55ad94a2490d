package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_IsBuiltLocally(t *testing.T) {
	h := newHarness(t, &fakeClient{})

	out, err := h.run("", "link", "--from", "Romeo", "--to", "Juliet", "--base-url", "https://hl.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://hl.example/?from=Romeo&to=Juliet\n", out)
	assert.Empty(t, h.client.addr, "no connection for a personal link")
}

func TestLink_Prompts(t *testing.T) {
	h := newHarness(t, &fakeClient{})

	out, err := h.run("Romeo\nJuliet & Co\n", "link")
	require.NoError(t, err)
	assert.Contains(t, out, "http://localhost:8080/?from=Romeo&to=Juliet+%26+Co")

	_, err = h.run("Romeo\n\n", "link")
	require.Error(t, err)
}

func TestRoot_ConfigFileAndFlagPrecedence(t *testing.T) {
	h := newHarness(t, &fakeClient{})

	cfgPath := filepath.Join(t.TempDir(), "heartctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server_endpoint_addr: file:1\npublic_base_url: https://file.example\n"), 0o600))

	_, err := h.run("", "ping", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "file:1", h.client.addr)

	_, err = h.run("", "ping", "-c", cfgPath, "--addr", "flag:2")
	require.NoError(t, err)
	assert.Equal(t, "flag:2", h.client.addr)

	out, err := h.run("", "link", "-c", cfgPath, "--from", "a", "--to", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "https://file.example/")

	_, err = h.run("", "ping", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRoot_TimeoutFlag(t *testing.T) {
	h := newHarness(t, &fakeClient{})

	start := time.Now()
	_, err := h.run("", "-t", "2s", "ping")
	require.NoError(t, err)
	require.False(t, h.client.pingDeadline.IsZero())
	assert.WithinDuration(t, start.Add(2*time.Second), h.client.pingDeadline, time.Second)

	_, err = h.run("", "ping")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Second), h.client.pingDeadline, 2*time.Second)
}

func TestRoot_UnknownCommand(t *testing.T) {
	h := newHarness(t, &fakeClient{})
	_, err := h.run("", "propose")
	require.Error(t, err)
}
