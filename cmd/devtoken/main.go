// Command devtoken prints a bearer token for local development.
//
//	JWT_SECRET=dev go run ./cmd/devtoken -role host -host 청약전문가
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/imfoot/internal/auth"
	"github.com/mmynk/imfoot/internal/config"
	"github.com/mmynk/imfoot/pkg/logging"
)

func main() {
	role := flag.String("role", string(auth.RoleHost), "token role: admin or host")
	hostID := flag.String("host", "", "host id (required for host tokens)")
	flag.Parse()

	logger := logging.SetupWithLevel(slog.LevelWarn)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	r, err := auth.ParseRole(*role)
	if err != nil {
		logger.Error("Invalid role", "error", err)
		os.Exit(2)
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).
		Generate(auth.Principal{Role: r, HostID: *hostID})
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
