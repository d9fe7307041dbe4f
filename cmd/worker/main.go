package main

import (
	"context"
	"log"
	"os"

	"github.com/wblproducoes/mvc08/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}
	runtime, err := bootstrap.NewRuntime(ctx, configPath)
	if err != nil {
		log.Fatalf("bootstrap worker runtime: %v", err)
	}
	if err := runtime.RunWorker(ctx); err != nil {
		log.Fatalf("run worker: %v", err)
	}
}
