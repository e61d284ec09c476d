package audit_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/audit"
)

func Test_Log_WritesActorAndDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := audit.New(&buf)

	logger.Log("LOGIN", "alice", "role: admin")

	line := buf.String()
	assert.Contains(t, line, "[alice]")
	assert.Contains(t, line, "LOGIN")
	assert.Contains(t, line, "- role: admin")
}

func Test_Log_OmitsEmptyActorAndDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := audit.New(&buf)

	logger.Log("STARTUP", "", "")

	line := buf.String()
	assert.Contains(t, line, "STARTUP")
	assert.NotContains(t, line, "[]")
	assert.NotContains(t, line, "-")
}

func Test_NewWithFile_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")

	logger, err := audit.NewWithFile(&bytes.Buffer{}, path)
	require.NoError(t, err)

	logger.Log("FIRST", "", "")
	logger.Log("SECOND", "bob", "")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "FIRST")
	assert.Contains(t, string(content), "[bob] SECOND")
}
