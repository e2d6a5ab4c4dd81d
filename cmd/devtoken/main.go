// Command devtoken mints a bearer token for local development against an
// account-mode server. It reads JWT_SECRET, JWT_ISSUER and JWT_TTL the same
// way the API does, including from a .env file.
//
//	go run ./cmd/devtoken -email me@example.com
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/config"
	"github.com/pkordes/tripplanner/internal/domain"
)

func main() {
	sub := flag.String("sub", "", "user id (default: a new random UUID)")
	email := flag.String("email", "dev@example.com", "email claim")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "devtoken: JWT_SECRET is not set")
		os.Exit(1)
	}

	userID := uuid.New()
	if *sub != "" {
		if userID, err = uuid.Parse(*sub); err != nil {
			fmt.Fprintln(os.Stderr, "devtoken: -sub:", err)
			os.Exit(2)
		}
	}

	token, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL).
		Issue(domain.Identity{UserID: userID, Email: *email})
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
