package gamesController

import (
	"context"
	"errors"
	"strings"

	"gamecatalog/config"
	"gamecatalog/internal/database"
	"gamecatalog/internal/events"
	. "gamecatalog/internal/models"
	"gamecatalog/internal/repositories"
	"gamecatalog/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
)

var (
	ErrGameNotFound   = repositories.ErrGameNotFound
	ErrGameNotDeleted = errors.New("game was not deleted")
)

// ValidationError carries every rule a submitted game broke.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid game data: " + strings.Join(e.Details, "; ")
}

type GamesController struct {
	gameRepo  repositories.GameRepository
	publisher events.Publisher
	validator *validation.GameValidator
	db        database.DB
	Config    config.Config
	log       logger.Logger
}

type GamesControllerInterface interface {
	ListGames(ctx context.Context) ([]*Game, error)
	GetGame(ctx context.Context, id int) (*Game, error)
	CreateGame(ctx context.Context, candidate map[string]any) (*Game, error)
	UpdateGame(ctx context.Context, id int, candidate map[string]any) (*Game, error)
	DeleteGame(ctx context.Context, id int) error
}

func New(
	repos repositories.Repository,
	publisher events.Publisher,
	config config.Config,
	db database.DB,
) GamesControllerInterface {
	return &GamesController{
		gameRepo:  repos.Game,
		publisher: publisher,
		validator: validation.NewGameValidator(),
		db:        db,
		Config:    config,
		log:       logger.New("gamesController"),
	}
}

func (c *GamesController) ListGames(ctx context.Context) ([]*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("ListGames")

	games, err := c.gameRepo.ListAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to list games", err)
	}

	return games, nil
}

func (c *GamesController) GetGame(ctx context.Context, id int) (*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("GetGame")

	game, err := c.gameRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get game", err, "id", id)
	}

	return game, nil
}

func (c *GamesController) CreateGame(ctx context.Context, candidate map[string]any) (*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateGame")

	input, details := c.validator.Parse(candidate)
	if len(details) > 0 {
		log.Info("Rejected invalid game", "details", details)
		return nil, &ValidationError{Details: details}
	}

	game, err := c.gameRepo.Create(ctx, c.db.SQL, input)
	if err != nil {
		return nil, log.Err("failed to create game", err)
	}

	c.publish(ctx, events.GAME_CREATED, game)

	log.Info("Game created successfully", "id", game.ID)
	return game, nil
}

func (c *GamesController) UpdateGame(
	ctx context.Context,
	id int,
	candidate map[string]any,
) (*Game, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateGame")

	if _, err := c.GetGame(ctx, id); err != nil {
		return nil, err
	}

	input, details := c.validator.Parse(candidate)
	if len(details) > 0 {
		log.Info("Rejected invalid game", "id", id, "details", details)
		return nil, &ValidationError{Details: details}
	}

	game, err := c.gameRepo.Update(ctx, c.db.SQL, id, input)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to update game", err, "id", id)
	}

	c.publish(ctx, events.GAME_UPDATED, game)

	log.Info("Game updated successfully", "id", id)
	return game, nil
}

func (c *GamesController) DeleteGame(ctx context.Context, id int) error {
	log := c.log.TraceFromContext(ctx).Function("DeleteGame")

	game, err := c.GetGame(ctx, id)
	if err != nil {
		return err
	}

	removed, err := c.gameRepo.Delete(ctx, c.db.SQL, id)
	if err != nil {
		return log.Err("failed to delete game", err, "id", id)
	}

	if !removed {
		log.Warn("Game disappeared before delete", "id", id)
		return ErrGameNotDeleted
	}

	c.publish(ctx, events.GAME_DELETED, game)

	log.Info("Game deleted successfully", "id", id)
	return nil
}

func (c *GamesController) publish(ctx context.Context, eventType events.MessageType, game *Game) {
	if c.publisher == nil {
		return
	}

	data := map[string]any{
		"title":    game.Title,
		"platform": game.Platform,
	}

	if err := c.publisher.PublishGameEvent(ctx, eventType, game.ID, data); err != nil {
		c.log.TraceFromContext(ctx).
			Function("publish").
			Er("failed to publish game event", err, "eventType", eventType, "id", game.ID)
	}
}
