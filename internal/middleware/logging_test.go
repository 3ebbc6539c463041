package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/imfoot/internal/auth"
)

func TestLoggingInterceptorSeesAuthOutcome(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	hostToken, err := m.Generate(auth.Principal{Role: auth.RoleHost, HostID: "host-1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	chain := roleChain(m, auth.RoleAdmin, logger)

	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"missing token", "", []string{"level=WARN", `msg="RPC error"`, "code=unauthenticated", "procedure=/test.v1.Test/Call"}},
		{"bad token", "Bearer garbage", []string{"level=WARN", "code=unauthenticated"}},
		{"wrong role", "Bearer " + hostToken, []string{"code=permission_denied", "role=host", "host_id=host-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			if _, err := call(t, chain, tt.header); err == nil {
				t.Fatal("Expected the call to be rejected")
			}
			line := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(line, want) {
					t.Errorf("Expected %q in log line %q", want, line)
				}
			}
		})
	}
}

func TestLoggingInterceptorNamesCaller(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate(auth.Principal{Role: auth.RoleHost, HostID: "host-1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, err := call(t, roleChain(m, auth.RoleHost, logger), "Bearer "+token)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if p.HostID != "host-1" {
		t.Errorf("Expected principal to reach the handler, got %+v", p)
	}

	line := buf.String()
	for _, want := range []string{"level=INFO", `msg="RPC ok"`, "role=host", "host_id=host-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in log line %q", want, line)
		}
	}
}
