package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophattend/internal/client/cli"
	"github.com/dmitrijs2005/gophattend/internal/client/config"
	"github.com/dmitrijs2005/gophattend/internal/flagx"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	os.Exit(app.Run(ctx, flagx.WithoutFlags(os.Args[1:], config.Flags)))

}
