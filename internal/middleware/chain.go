package middleware

import (
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/auth"
)

// ForRole returns the interceptor chain for a service restricted to role:
// RPC logging, then authentication, then the role check.
func ForRole(jwtManager *auth.JWTManager, role auth.Role, logger *slog.Logger) connect.Option {
	chain := roleChain(jwtManager, role, logger)
	interceptors := make([]connect.Interceptor, len(chain))
	for i, interceptor := range chain {
		interceptors[i] = interceptor
	}
	return connect.WithInterceptors(interceptors...)
}

// roleChain lists the interceptors outermost first.
func roleChain(jwtManager *auth.JWTManager, role auth.Role, logger *slog.Logger) []connect.UnaryInterceptorFunc {
	return []connect.UnaryInterceptorFunc{
		LoggingInterceptor(logger),
		RequireAuth(jwtManager),
		RequireRole(role),
	}
}
