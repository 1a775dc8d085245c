package main

import (
	"log"
	"os"

	"relay_pls/internal/bootstrap"
	"relay_pls/internal/config"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.MustLoad()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	app := bootstrap.New(cfg)
	if err := app.Run(); err != nil {
		log.Fatalf("%s", err)
	}
}
