package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/auth"
)

type callerKey struct{}

// caller is filled in by RequireAuth further down the chain so the logging
// interceptor can name the principal, or log a rejection without one.
type caller struct {
	principal auth.Principal
}

func recordCaller(ctx context.Context, p auth.Principal) {
	if c, ok := ctx.Value(callerKey{}).(*caller); ok {
		c.principal = p
	}
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, caller, duration, and any error codes/messages.
// Install it before RequireAuth so rejected calls are logged too.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			c := &caller{}
			if p, ok := GetPrincipal(ctx); ok {
				c.principal = p
			}
			resp, err := next(context.WithValue(ctx, callerKey{}, c), req)

			p := c.principal // zero when authentication failed
			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					logger.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"role", p.Role,
						"host_id", p.HostID,
						"duration_ms", duration,
					)
				} else {
					logger.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"role", p.Role,
						"host_id", p.HostID,
						"duration_ms", duration,
					)
				}
			} else {
				logger.Info("RPC ok",
					"procedure", procedure,
					"role", p.Role,
					"host_id", p.HostID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
