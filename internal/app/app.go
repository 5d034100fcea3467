package app

import (
	"gamecatalog/config"
	"gamecatalog/internal/controllers"
	"gamecatalog/internal/database"
	"gamecatalog/internal/events"
	"gamecatalog/internal/handlers/middleware"
	"gamecatalog/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Build(config, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Er("failed to close database", closeErr)
		}
		return &App{}, err
	}

	return app, nil
}

// Build wires the application on top of an already opened database.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	var client valkey.Client
	if db.Cache.Events != nil {
		client = db.Cache.Events
	}

	eventBus := events.New(client)
	eventBus.Subscribe(events.GAMES_CHANNEL, logGameEvent)

	repos := repositories.New()

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware.New(config),
		EventBus:    eventBus,
		Repos:       repos,
		Controllers: controllers.New(repos, eventBus, config, db),
	}

	if err := app.validate(); err != nil {
		_ = eventBus.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func logGameEvent(event events.Event) error {
	logger.New("app").Function("logGameEvent").Info(
		"Game changed",
		"eventType", event.Type,
		"gameID", event.GameID,
		"eventID", event.ID,
	)
	return nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Repos.Game,
		a.Controllers.Games,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
