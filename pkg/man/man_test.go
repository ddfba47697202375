package man

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManCmd(t *testing.T) {
	cmd := NewManCmd()
	assert.Equal(t, "man", cmd.Use)
	assert.True(t, cmd.Hidden)
}

func TestNewManCmd_GeneratesPage(t *testing.T) {
	root := &cobra.Command{
		Use:   "toptracks",
		Short: "Create a playlist from your top tracks",
	}
	root.Flags().Bool("debug", false, "Enable debug-level logging")
	root.AddCommand(NewManCmd())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"man"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, ".TH")
	assert.Contains(t, strings.ToLower(out), "toptracks")
	assert.Contains(t, out, "debug")
}
