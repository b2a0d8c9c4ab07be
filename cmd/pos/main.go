package main

import (
	"context"
	"log"

	"github.com/merchpoint/pos/internal/pos/cli"
	"github.com/merchpoint/pos/internal/pos/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
