package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAuthAttempt(t *testing.T) {
	origEnv, origPath := loggingEnv, authLogPath
	defer func() { loggingEnv, authLogPath = origEnv, origPath }()

	authLogPath = filepath.Join(t.TempDir(), "log", "auth.log")

	loggingEnv = "false"
	LogAuthAttempt("info", "Local", "Success", "alice", "")
	_, err := os.Stat(authLogPath)
	assert.True(t, os.IsNotExist(err), "nothing is written when LOGGING is off")

	loggingEnv = "TRUE"
	LogAuthAttempt("info", "Local", "Success", "alice", "")
	LogAuthAttempt("warning", "Local", "Fail", "", "wrong password")

	b, err := os.ReadFile(authLogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " | info | Local | Success | alice"))
	assert.True(t, strings.HasSuffix(lines[1], " | warning | Local | Fail | wrong password"))
}
