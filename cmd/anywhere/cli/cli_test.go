package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueRejectsUnknownTask(t *testing.T) {
	cmd := enqueueCmd
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := runEnqueue(cmd, []string{"rebuild-everything"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown task")
}

func TestExportRejectsBadMonth(t *testing.T) {
	cmd := exportCmd
	require.NoError(t, cmd.Flags().Set("month", "May 2026"))
	t.Cleanup(func() {
		_ = cmd.Flags().Set("month", "")
	})

	err := runExport(cmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --month")
}
