package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/fulfilld/allocation/internal/app/api"
)

func main() {
	_ = godotenv.Load()
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("allocation api exited: %v", err)
	}
}
