package handlers

import (
	"errors"
	"strconv"

	"gamecatalog/internal/app"
	gamesController "gamecatalog/internal/controllers/games"
	"gamecatalog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const (
	msgGameNotFound      = "Game not found"
	msgInvalidGameData   = "Invalid game data"
	msgInvalidBody       = "Invalid request body"
	msgGameCreated       = "Game created successfully"
	msgGameUpdated       = "Game updated successfully"
	msgGameDeleted       = "Game deleted successfully"
	msgGameDeleteFailure = "Failed to delete game"
)

var errInvalidBody = errors.New("request body must be a JSON object")

type GameHandler struct {
	Handler
	gamesController gamesController.GamesControllerInterface
}

func NewGameHandler(app app.App, router fiber.Router) *GameHandler {
	log := logger.New("handlers").File("game_handler")
	return &GameHandler{
		gamesController: app.Controllers.Games,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GameHandler) Register() {
	games := h.router.Group("/games")

	games.Get("", h.listGames)
	games.Post("", h.createGame)
	games.Get("/:id", h.getGame)
	games.Put("/:id", h.updateGame)
	games.Delete("/:id", h.deleteGame)
}

func (h *GameHandler) listGames(c *fiber.Ctx) error {
	games, err := h.gamesController.ListGames(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "listGames")
	}

	return c.JSON(types.List(games, len(games)))
}

func (h *GameHandler) getGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail(msgGameNotFound))
	}

	game, err := h.gamesController.GetGame(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "getGame")
	}

	return c.JSON(types.Ok(game))
}

func (h *GameHandler) createGame(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createGame")

	candidate, err := decodeCandidate(c)
	if err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgInvalidBody))
	}

	game, err := h.gamesController.CreateGame(c.UserContext(), candidate)
	if err != nil {
		return h.respondError(c, err, "createGame")
	}

	response := types.Ok(game)
	response.Message = msgGameCreated
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *GameHandler) updateGame(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateGame")

	id, ok := gameID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail(msgGameNotFound))
	}

	candidate, err := decodeCandidate(c)
	if err != nil {
		log.Warn("Invalid request body", "id", id, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgInvalidBody))
	}

	game, err := h.gamesController.UpdateGame(c.UserContext(), id, candidate)
	if err != nil {
		return h.respondError(c, err, "updateGame")
	}

	response := types.Ok(game)
	response.Message = msgGameUpdated
	return c.JSON(response)
}

func (h *GameHandler) deleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail(msgGameNotFound))
	}

	if err := h.gamesController.DeleteGame(c.UserContext(), id); err != nil {
		return h.respondError(c, err, "deleteGame")
	}

	return c.JSON(types.Response{Success: true, Message: msgGameDeleted})
}

func (h *GameHandler) respondError(c *fiber.Ctx, err error, function string) error {
	log := h.log.TraceFromContext(c.UserContext()).Function(function)

	var validationErr *gamesController.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response := types.Fail(msgInvalidGameData)
		response.Details = validationErr.Details
		return c.Status(fiber.StatusBadRequest).JSON(response)
	case errors.Is(err, gamesController.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.Fail(msgGameNotFound))
	case errors.Is(err, gamesController.ErrGameNotDeleted):
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail(msgGameDeleteFailure))
	}

	log.Er("Request failed", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(types.Fail(msgInternalError))
}

// gameID accepts only plain decimal ids; anything else cannot name a game.
func gameID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeCandidate reads the body as a JSON object. An empty body counts as an
// empty object so the validator can report the missing fields.
func decodeCandidate(c *fiber.Ctx) (map[string]any, error) {
	body := c.Body()
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	var candidate map[string]any
	if err := c.App().Config().JSONDecoder(body, &candidate); err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, errInvalidBody
	}

	return candidate, nil
}
