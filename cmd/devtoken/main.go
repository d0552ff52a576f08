// Command devtoken prints a signed access token for local testing of the
// authenticated endpoints.
package main

import (
	"flag"
	"fmt"
	"log"

	"user-service/internal/config"
	"user-service/internal/database/seeder"
	"user-service/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", seeder.DemoUserID, "user id to embed in the token")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRES_IN)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	expiresIn := cfg.JWT.AccessExpiresIn
	if *ttl > 0 {
		expiresIn = *ttl
	}

	token, err := jwt.NewHMACService(cfg.JWT.AccessSecret, expiresIn).GenerateAccessToken(*userID, *email)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
