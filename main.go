package main

import (
	"os"

	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := NewCatalog().Run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("catalog stopped")
	}
}
