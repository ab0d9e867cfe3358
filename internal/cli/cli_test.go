package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentNameFor(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"notes.txt", "notes"},
		{"/home/user/taxes-2026.pdf", "taxes-2026"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"./dir/plan", "plan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, documentNameFor(tt.source))
	}
}

func TestVersionCommand(t *testing.T) {
	c := NewCLI(BuildInfo{Version: "1.2.3", Date: "2026-08-01", Commit: "abc1234"})

	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	c.root.SetArgs([]string{"version"})

	require.NoError(t, c.Execute())
	assert.Contains(t, out.String(), "docvault 1.2.3")
	assert.Contains(t, out.String(), "abc1234")
}

func TestVersionCommand_EmptyBuildInfo(t *testing.T) {
	c := NewCLI(BuildInfo{})

	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetArgs([]string{"version"})

	require.NoError(t, c.Execute())
	assert.Contains(t, out.String(), "N/A")
}

func TestConfigOverrides_VerboseForcesDebugLevel(t *testing.T) {
	c := NewCLI(BuildInfo{Version: "1.0.0"})
	c.flags.verbose = true
	c.flags.logLevel = "warn"

	overrides := c.configOverrides(c.root)
	assert.Equal(t, "debug", overrides.Logging.Level)
}

func TestConfigOverrides_UnsetClipboardStaysZero(t *testing.T) {
	c := NewCLI(BuildInfo{})

	overrides := c.configOverrides(c.root)
	assert.False(t, overrides.App.ClipboardEnabled)
}
