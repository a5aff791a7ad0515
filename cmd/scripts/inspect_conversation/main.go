package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/wuwenbin0122/ryoku/internal/store"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <user_id>", os.Args[0])
	}
	userID := os.Args[1]

	_ = godotenv.Load()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatalf("DATABASE_URL is not set; nothing to inspect")
	}

	ctx := context.Background()
	conversations, closeStore, err := store.Open(ctx, cfg.Database, utils.Logger())
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	messages := conversations.Load(ctx, userID)
	fmt.Printf("%d messages for %s:\n", len(messages), userID)
	for i, msg := range messages {
		fmt.Printf("%3d. [%s] %s\n", i+1, msg.Role, msg.Content)
	}
}
