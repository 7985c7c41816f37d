package console

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogLevels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.LogInfo("Checking %s", "us-east-1")
	c.LogWarning("Found %d default VPCs", 2)
	c.LogError("Failed to delete VPC %s", "vpc-123")
	c.LogSuccess("Successfully deleted VPC %s", "vpc-456")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "INF")
	assert.Contains(t, lines[0], "Checking us-east-1")
	assert.Contains(t, lines[1], "WRN")
	assert.Contains(t, lines[2], "ERR")
	assert.Contains(t, lines[2], "Failed to delete VPC vpc-123")
	assert.Contains(t, lines[3], "INF")
	assert.Contains(t, lines[3], "status=success")

	// Sem terminal não há códigos ANSI.
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConsoleLogFile(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)
	path := filepath.Join(t.TempDir(), "vpc_deletion.log")

	c.LogInfo("before the file is opened")
	require.NoError(t, c.OpenLogFile(path))
	c.LogError("Max retries reached for VPC %s in region %s.", "vpc-123", "us-east-1")
	require.NoError(t, c.Close())
	c.LogInfo("after close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "ERR Max retries reached for VPC vpc-123 in region us-east-1.")
	assert.NotContains(t, content, "before the file is opened")
	assert.NotContains(t, content, "after close")

	// O console recebe todos os eventos.
	assert.Contains(t, buf.String(), "before the file is opened")
	assert.Contains(t, buf.String(), "Max retries reached")
	assert.Contains(t, buf.String(), "after close")
}

func TestConsoleLogFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpc_deletion.log")

	for _, msg := range []string{"first run", "second run"} {
		c := NewConsoleWithWriter(&bytes.Buffer{})
		require.NoError(t, c.OpenLogFile(path))
		c.LogInfo(msg)
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestConsoleOpenLogFileError(t *testing.T) {
	c := NewConsoleWithWriter(&bytes.Buffer{})
	err := c.OpenLogFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.ErrorContains(t, err, "error opening log file")
	assert.NoError(t, c.Close())
}

func TestConsolePrintAndTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.Print("a", "b")
	c.Printf(" %d ", 1)
	c.Println("done")
	assert.Equal(t, "ab 1 done\n", buf.String())

	table := c.CreateTable()
	table.AddColumn("Region")
	table.AddColumn("VPC ID")
	table.AddRow("us-east-1", "vpc-123")
	rendered := table.Render()
	assert.Contains(t, rendered, "Region")
	assert.Contains(t, rendered, "vpc-123")

	status := c.Status("Fetching regions...")
	status.Update("still fetching")
	status.Stop()
}
