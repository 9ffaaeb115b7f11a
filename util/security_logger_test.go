package util

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// setupTestLogger creates a test logger that captures output and returns it for assertions
// along with a cleanup function to restore the original logger
func setupTestLogger() (*bytes.Buffer, func()) {
	buf := &bytes.Buffer{}
	originalLogger := securityLogger
	securityLogger = log.New(buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
	cleanup := func() {
		securityLogger = originalLogger
	}
	return buf, cleanup
}

// assertLogContains checks if the log output contains all expected substrings
func assertLogContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, expectedSubstr := range expected {
		if !strings.Contains(output, expectedSubstr) {
			t.Errorf("Log output missing expected substring %q\nGot: %s", expectedSubstr, output)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes newlines",
			input:    "hello\nworld",
			expected: "hello world",
		},
		{
			name:     "removes carriage returns",
			input:    "hello\rworld",
			expected: "hello world",
		},
		{
			name:     "removes tabs",
			input:    "hello\tworld",
			expected: "hello world",
		},
		{
			name:     "truncates long values",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200) + "...",
		},
		{
			name:     "leaves clean values untouched",
			input:    "doc@example.com",
			expected: "doc@example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogValue(tt.input); got != tt.expected {
				t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogSecurityEvent_Sanitizes(t *testing.T) {
	buf, cleanup := setupTestLogger()
	defer cleanup()

	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "attacker@example.com\nEvent=LOGIN_SUCCESS",
		IP:        "10.0.0.1",
		Message:   "injected\nline",
	})

	output := buf.String()
	assertLogContains(t, output, []string{
		"Event=LOGIN_FAILURE",
		"attacker@example.com Event=LOGIN_SUCCESS",
		"injected line",
	})
	if strings.Count(output, "\n") > 1 {
		t.Errorf("expected a single log line, got: %q", output)
	}
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func()
		contains []string
	}{
		{
			name:    "LogLoginSuccess",
			logFunc: func() { LogLoginSuccess("user@example.com", "192.168.1.1", "Mozilla/5.0") },
			contains: []string{
				"Event=LOGIN_SUCCESS",
				"Email=user@example.com",
				"Message=User logged in successfully",
			},
		},
		{
			name:    "LogLoginFailure",
			logFunc: func() { LogLoginFailure("user@example.com", "192.168.1.1", "Mozilla/5.0", "wrong password") },
			contains: []string{
				"Event=LOGIN_FAILURE",
				"Message=Login failed: wrong password",
			},
		},
		{
			name:    "LogLogout",
			logFunc: func() { LogLogout("user@example.com", "192.168.1.2", "Chrome") },
			contains: []string{
				"Event=LOGOUT",
				"Message=User logged out",
			},
		},
		{
			name:    "LogAccountLocked",
			logFunc: func() { LogAccountLocked("locked@example.com", "192.168.1.3", "too many failed attempts") },
			contains: []string{
				"Event=ACCOUNT_LOCKED",
				"Message=Account locked: too many failed attempts",
			},
		},
		{
			name:    "LogAccountDeleted",
			logFunc: func() { LogAccountDeleted("gone@example.com", "192.168.1.3", "Mozilla/5.0") },
			contains: []string{
				"Event=ACCOUNT_DELETED",
				"Email=gone@example.com",
			},
		},
		{
			name:    "LogAdminToggled",
			logFunc: func() { LogAdminToggled("target@example.com", "admin@example.com", true) },
			contains: []string{
				"Event=ADMIN_TOGGLED",
				"Email=target@example.com",
				"Message=Admin flag set to true by admin@example.com",
			},
		},
		{
			name:    "LogUnauthorizedAccess",
			logFunc: func() { LogUnauthorizedAccess("user@example.com", "192.168.1.4", "/admin/users", "not an admin") },
			contains: []string{
				"Event=UNAUTHORIZED_ACCESS",
				"Message=Unauthorized access to /admin/users: not an admin",
			},
		},
		{
			name:    "LogRateLimitExceeded",
			logFunc: func() { LogRateLimitExceeded("user@example.com", "192.168.1.5", "/login") },
			contains: []string{
				"Event=RATE_LIMIT_EXCEEDED",
				"Message=Rate limit exceeded for endpoint: /login",
			},
		},
		{
			name:    "LogGenerationFailure",
			logFunc: func() { LogGenerationFailure("user@example.com", "discovery", "api status 429") },
			contains: []string{
				"Event=GENERATION_FAILURE",
				"Message=Listing generation failed (mode=discovery): api status 429",
				"DetailsCount=1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, cleanup := setupTestLogger()
			defer cleanup()

			tt.logFunc()
			assertLogContains(t, buf.String(), tt.contains)
		})
	}
}
