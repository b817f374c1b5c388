package main

import (
	"log"

	"github.com/judgegodwins/snake-server/api"
	"github.com/judgegodwins/snake-server/game"
	"github.com/judgegodwins/snake-server/token"
	"github.com/judgegodwins/snake-server/util"
)

func main() {
	util.InitValidator()

	config, err := util.LoadConfig()

	if err != nil {
		log.Fatal(err)
	}

	maker, err := token.NewPasetoMaker(config.TokenSymmetricKey)

	if err != nil {
		log.Fatal(err)
	}

	registry := game.NewRegistry()
	defer registry.Close()

	server := api.NewServer(config, registry, maker)

	log.Fatal(server.Start())
}
