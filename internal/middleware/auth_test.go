package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/auth"
)

// fakeRequest carries only the headers the interceptors read.
type fakeRequest struct {
	connect.AnyRequest
	header http.Header
}

func (r fakeRequest) Header() http.Header { return r.header }

func (r fakeRequest) Spec() connect.Spec { return connect.Spec{Procedure: "/test.v1.Test/Call"} }

func call(t *testing.T, interceptors []connect.UnaryInterceptorFunc, header string) (auth.Principal, error) {
	t.Helper()

	var seen auth.Principal
	var next connect.UnaryFunc = func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = GetPrincipal(ctx)
		return nil, nil
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		next = interceptors[i](next)
	}

	h := http.Header{}
	if header != "" {
		h.Set("Authorization", header)
	}
	_, err := next(context.Background(), fakeRequest{header: h})
	return seen, err
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	token, err := m.Generate(auth.Principal{Role: auth.RoleHost, HostID: "host-1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	chain := []connect.UnaryInterceptorFunc{RequireAuth(m)}

	p, err := call(t, chain, "Bearer "+token)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if p.HostID != "host-1" || p.Role != auth.RoleHost {
		t.Errorf("Unexpected principal %+v", p)
	}

	for _, header := range []string{"", "Token " + token, "Bearer ", "Bearer garbage"} {
		_, err := call(t, chain, header)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("header %q: expected Unauthenticated, got %v", header, err)
		}
	}
}

func TestRequireRole(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	adminToken, _ := m.Generate(auth.Principal{Role: auth.RoleAdmin})
	hostToken, _ := m.Generate(auth.Principal{Role: auth.RoleHost, HostID: "host-1"})

	chain := []connect.UnaryInterceptorFunc{RequireAuth(m), RequireRole(auth.RoleAdmin)}

	if _, err := call(t, chain, "Bearer "+adminToken); err != nil {
		t.Errorf("Admin should pass, got %v", err)
	}
	_, err := call(t, chain, "Bearer "+hostToken)
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("Expected PermissionDenied for host, got %v", err)
	}

	// Without RequireAuth in front there is no principal at all
	_, err = call(t, []connect.UnaryInterceptorFunc{RequireRole(auth.RoleAdmin)}, "Bearer "+adminToken)
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("Expected Unauthenticated, got %v", err)
	}
}
