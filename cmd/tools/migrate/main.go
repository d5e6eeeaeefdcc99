package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
	"rfp-intake/internal/storage"
)

func main() {
	var (
		dryRun       bool
		seedUser     string
		seedPassword string
	)
	flag.BoolVar(&dryRun, "dry-run", false, "Print the schema SQL and exit without connecting")
	flag.StringVar(&seedUser, "seed-user", "", "Create this user after migrating (optional)")
	flag.StringVar(&seedPassword, "seed-password", "", "Password for -seed-user")
	flag.Parse()

	if dryRun {
		fmt.Print(storage.SchemaSQL)
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if seedUser != "" && seedPassword == "" {
		log.Fatal("-seed-password is required with -seed-user")
	}

	log.Printf("Connecting to DB...")
	db, err := storage.NewDB(dbURL, nil)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("Schema is up to date")

	if seedUser == "" {
		return
	}
	if err := seed(ctx, db, seedUser, seedPassword); err != nil {
		log.Fatalf("seed user failed: %v", err)
	}
}

// seed stores a bcrypt hash of password. An existing username is reported
// and left untouched.
func seed(ctx context.Context, store storage.Store, username, password string) error {
	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		log.Printf("User %q already exists, skipping", username)
		return nil
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u, err := store.CreateUser(ctx, models.NewUser{Username: username, Password: string(hash)})
	if err != nil {
		return err
	}
	log.Printf("Created user %q with id %d", u.Username, u.ID)
	return nil
}
