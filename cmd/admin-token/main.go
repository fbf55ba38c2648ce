package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/pkg/token"
)

func main() {
	// Flags for customization
	secret := flag.String("secret", os.Getenv("TOKEN_SECRET"), "Token signing secret (defaults to TOKEN_SECRET)")
	accountID := flag.String("account", "user_account:admin-dev", "Account ID for the token")
	email := flag.String("email", "admin@kinovera.film", "Email for the token")
	name := flag.String("name", "Admin", "Display name for the token")
	role := flag.String("role", model.RoleAdmin, "Role for the token")
	issuer := flag.String("issuer", "api.kinovera.film", "Token issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: no signing secret; pass -secret or set TOKEN_SECRET")
		os.Exit(1)
	}
	if !model.ValidRole(*role) {
		fmt.Fprintf(os.Stderr, "Error: unknown role '%s'\n", *role)
		os.Exit(1)
	}

	tokenService, err := token.NewService(token.Config{
		Secret:         *secret,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating token service: %v\n", err)
		os.Exit(1)
	}

	signed, err := tokenService.Generate(*accountID, *email, *name, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": signed,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"account_id":   *accountID,
			"email":        *email,
			"role":         *role,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Staff Token Generated")
		fmt.Println("=====================")
		fmt.Printf("Account:  %s\n", *accountID)
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Role:     %s\n", *role)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(signed)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/admin/activities\n", signed[:50]+"...")
	}
}
