package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	. "gamecatalog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-success envelope returned by the catalog API.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return strings.Join(e.Details, ", ")
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == fiber.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
}

// Client talks to the catalog API over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	log     logger.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		log:     logger.New("client"),
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) ListGames() ([]Game, error) {
	env, err := c.do(fiber.MethodGet, "/games", nil)
	if err != nil {
		return nil, err
	}

	games := []Game{}
	if err := json.Unmarshal(env.Data, &games); err != nil {
		return nil, c.log.Function("ListGames").Err("failed to decode games", err)
	}

	return games, nil
}

func (c *Client) GetGame(id int) (*Game, error) {
	env, err := c.do(fiber.MethodGet, gamePath(id), nil)
	if err != nil {
		return nil, err
	}

	return c.decodeGame(env, "GetGame")
}

// CreateGame submits payload as is; the server owns validation.
func (c *Client) CreateGame(payload map[string]any) (*Game, string, error) {
	env, err := c.do(fiber.MethodPost, "/games", payload)
	if err != nil {
		return nil, "", err
	}

	game, err := c.decodeGame(env, "CreateGame")
	return game, env.Message, err
}

func (c *Client) UpdateGame(id int, payload map[string]any) (*Game, string, error) {
	env, err := c.do(fiber.MethodPut, gamePath(id), payload)
	if err != nil {
		return nil, "", err
	}

	game, err := c.decodeGame(env, "UpdateGame")
	return game, env.Message, err
}

func (c *Client) DeleteGame(id int) (string, error) {
	env, err := c.do(fiber.MethodDelete, gamePath(id), nil)
	if err != nil {
		return "", err
	}

	return env.Message, nil
}

func (c *Client) decodeGame(env envelope, function string) (*Game, error) {
	var game Game
	if err := json.Unmarshal(env.Data, &game); err != nil {
		return nil, c.log.Function(function).Err("failed to decode game", err)
	}
	return &game, nil
}

func (c *Client) do(method, path string, payload any) (envelope, error) {
	log := c.log.Function("do")

	// The agent returns itself to the pool once the response is read.
	agent := fiber.AcquireAgent()

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	agent.Timeout(c.timeout)

	if payload != nil {
		agent.JSON(payload)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return envelope{}, log.Err("failed to build request", err, "method", method, "path", path)
	}

	var env envelope
	status, body, errs := agent.Struct(&env)
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if status == 0 {
			return envelope{}, log.Err("request failed", err, "method", method, "path", path)
		}
		return envelope{}, log.Err(
			"unexpected response",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(string(body))),
			"status", status,
		)
	}

	if !env.Success {
		return envelope{}, &APIError{Status: status, Message: env.Error, Details: env.Details}
	}

	return env, nil
}

func gamePath(id int) string {
	return fmt.Sprintf("/games/%d", id)
}
