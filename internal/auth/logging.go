package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	loggingEnv  = os.Getenv("LOGGING")
	authLogPath = filepath.Join("log", "auth.log")
	authLogMu   sync.Mutex
)

// LogAuthAttempt appends an authentication attempt record to log/auth.log
// when LOGGING=true.
// Fields: timestamp (RFC3339) | level | authType | status | identifier? | message?
// level: debug|info|warning|error|fatal
// status: Success|Fail|Logout
func LogAuthAttempt(level string, authType string, status string, identifier string, message string) {
	if !strings.EqualFold(loggingEnv, "true") {
		return
	}

	authLogMu.Lock()
	defer authLogMu.Unlock()

	// logging failures never fail the request
	if err := os.MkdirAll(filepath.Dir(authLogPath), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(authLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	ts := time.Now().UTC().Format(time.RFC3339)
	parts := []string{ts, level, authType, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}
	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}
