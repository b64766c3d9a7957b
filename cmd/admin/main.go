package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkireev/realty/internal/admin"
	"github.com/dkireev/realty/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	username, email, password, err := admin.CollectInput(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	created, err := admin.Bootstrap(ctx, cfg, username, email, password)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if created {
		fmt.Printf("Superuser %q created\n", username)
	} else {
		fmt.Println("A superuser already exists, nothing to do")
	}
}
