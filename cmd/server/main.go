package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/simp-lee/routekit/internal/app"
	"github.com/simp-lee/routekit/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	printRoutes := flag.Bool("routes", false, "print the registered route table and exit")
	flag.Parse()

	// APP__ variables from .env; the real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("failed to load .env: ", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if *printRoutes {
		err := a.PrintRoutes(os.Stdout)
		if cerr := a.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Fatal("failed to print routes: ", err)
		}
		return
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
