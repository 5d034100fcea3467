package controllers

import (
	"gamecatalog/config"
	"gamecatalog/internal/database"
	"gamecatalog/internal/events"
	"gamecatalog/internal/repositories"

	gamesController "gamecatalog/internal/controllers/games"
)

type Controllers struct {
	Games gamesController.GamesControllerInterface
}

func New(
	repos repositories.Repository,
	eventBus events.Publisher,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Games: gamesController.New(repos, eventBus, config, db),
	}
}
