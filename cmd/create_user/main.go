package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tejasrajegowda/BudgetOps-AI/pkg/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/create_user <email> [connected]")
		os.Exit(2)
	}
	email := os.Args[1]
	connected := len(os.Args) > 2 && strings.EqualFold(os.Args[2], "connected")

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	st := store.New(db)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, email, connected)
	if errors.Is(err, store.ErrDuplicateEmail) {
		existing, ferr := st.GetUserByEmail(ctx, email)
		if ferr != nil {
			log.Fatalf("user exists but lookup failed: %v", ferr)
		}
		fmt.Printf("user %s already exists (id=%s)\n", email, existing.ID)
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%s gmail_connected=%t\n", email, user.ID, user.GmailConnected)
}
