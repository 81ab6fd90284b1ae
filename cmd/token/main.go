// Command token issues an access token for calling the payroll API, e.g.
// from a scheduler outside the service.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/factory-payroll/internal/config"
	"github.com/cmlabs-hris/factory-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/jwt"
	"github.com/google/uuid"
)

func main() {
	subject := flag.String("subject", "", "user id placed in the token (random when empty)")
	role := flag.String("role", string(auth.RoleManager), "owner, manager or employee")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	r := auth.Role(*role)
	if r != auth.RoleOwner && r != auth.RoleManager && r != auth.RoleEmployee {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	if *subject == "" {
		*subject = uuid.NewString()
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*subject, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
