// Command token issues an access token for local testing against the API.
// Production tokens come from the identity service that shares JWT_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sitework-erp/labour-ledger-go/internal/config"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id placed in the user_id claim")
	role := flag.String("role", string(user.RoleAdmin), "role claim (admin, supervisor, accountant, site_engineer, viewer)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}
	if !user.Role(*role).IsValid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error issuing token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
