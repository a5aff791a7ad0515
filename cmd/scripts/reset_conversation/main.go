package main

import (
	"context"
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

	ctx := context.Background()
	conversations, closeStore, err := store.Open(ctx, cfg.Database, utils.Logger())
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	deleter, ok := conversations.(store.Deleter)
	if !ok {
		log.Fatalf("configured store does not keep history; nothing to reset")
	}

	if err := deleter.Delete(ctx, userID); err != nil {
		log.Fatalf("delete conversation: %v", err)
	}

	log.Printf("conversation for %s removed", userID)
}
