// Command tokengen mints development tokens the way the identity provider
// would, signed with the shared secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/domain"
)

func main() {
	var (
		subject = flag.String("subject", "", "user id (required)")
		email   = flag.String("email", "", "user email")
		role    = flag.String("role", string(domain.RoleShopper), "shopper or admin")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	parsedRole, err := domain.ToRole(*role)
	if err != nil {
		log.Fatalf("role %q: %v", *role, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	token, err := auth.Sign(secret, *subject, *email, parsedRole, *ttl)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
