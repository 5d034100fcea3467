package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/app"
	"gamecatalog/internal/database"
	"gamecatalog/internal/models"
	"gamecatalog/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
}

type gamePayload struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Platform    string   `json:"platform"`
	ReleaseYear int      `json:"releaseYear"`
	Rating      *float64 `json:"rating"`
	Description *string  `json:"description"`
}

func setupServer(t *testing.T, staticDir string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Game{}))

	cfg := config.Config{
		GeneralVersion:       "test",
		Environment:          "test",
		ServerPort:           3000,
		DatabaseMaxOpenConns: 1,
		CorsAllowOrigins:     "*",
		StaticDir:            staticDir,
	}

	a, err := app.Build(cfg, database.DB{SQL: db})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv, err := server.New(a)
	require.NoError(t, err)

	return srv.FiberApp
}

func doRequest(t *testing.T, fiberApp *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)

	return resp.StatusCode, env
}

func decodeGame(t *testing.T, env envelope) gamePayload {
	t.Helper()

	var game gamePayload
	require.NoError(t, json.Unmarshal(env.Data, &game))
	return game
}

func validGame() map[string]any {
	return map[string]any{
		"title":       "Test Game",
		"genre":       "Test Genre",
		"platform":    "Test Platform",
		"releaseYear": 2023,
		"rating":      8.5,
		"description": "A game used in tests",
	}
}

func createGame(t *testing.T, fiberApp *fiber.App, body map[string]any) gamePayload {
	t.Helper()

	status, env := doRequest(t, fiberApp, http.MethodPost, "/games", body)
	require.Equal(t, http.StatusCreated, status, "error: %s details: %v", env.Error, env.Details)
	return decodeGame(t, env)
}

func TestCreateGame_EchoesSubmittedFields(t *testing.T) {
	fiberApp := setupServer(t, "")

	status, env := doRequest(t, fiberApp, http.MethodPost, "/games", validGame())

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Game created successfully", env.Message)

	game := decodeGame(t, env)
	assert.Positive(t, game.ID)
	assert.Equal(t, "Test Game", game.Title)
	assert.Equal(t, "Test Genre", game.Genre)
	assert.Equal(t, "Test Platform", game.Platform)
	assert.Equal(t, 2023, game.ReleaseYear)
	require.NotNil(t, game.Rating)
	assert.Equal(t, 8.5, *game.Rating)
	require.NotNil(t, game.Description)
	assert.Equal(t, "A game used in tests", *game.Description)
}

func TestCreateGame_RejectsInvalidData(t *testing.T) {
	fiberApp := setupServer(t, "")

	body := map[string]any{
		"title":       "",
		"genre":       "Test Genre",
		"platform":    "Test Platform",
		"releaseYear": 1960,
		"rating":      15,
	}

	status, env := doRequest(t, fiberApp, http.MethodPost, "/games", body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid game data", env.Error)
	assert.Len(t, env.Details, 3)
}

func TestCreateGame_Bounds(t *testing.T) {
	fiberApp := setupServer(t, "")
	maxYear := time.Now().Year() + 5

	tests := []struct {
		name   string
		field  string
		value  any
		status int
	}{
		{name: "blank title", field: "title", value: "   ", status: http.StatusBadRequest},
		{name: "blank genre", field: "genre", value: "", status: http.StatusBadRequest},
		{name: "blank platform", field: "platform", value: " ", status: http.StatusBadRequest},
		{name: "long title", field: "title", value: strings.Repeat("a", 300), status: http.StatusCreated},
		{name: "long platform", field: "platform", value: strings.Repeat("p", 150), status: http.StatusCreated},
		{name: "padded year string", field: "releaseYear", value: " 2000 ", status: http.StatusCreated},
		{name: "boolean rating", field: "rating", value: true, status: http.StatusBadRequest},
		{name: "empty rating", field: "rating", value: "", status: http.StatusBadRequest},
		{name: "earliest year", field: "releaseYear", value: 1970, status: http.StatusCreated},
		{name: "latest year", field: "releaseYear", value: maxYear, status: http.StatusCreated},
		{name: "year too early", field: "releaseYear", value: 1969, status: http.StatusBadRequest},
		{name: "year too late", field: "releaseYear", value: maxYear + 1, status: http.StatusBadRequest},
		{name: "lowest rating", field: "rating", value: 0, status: http.StatusCreated},
		{name: "highest rating", field: "rating", value: 10, status: http.StatusCreated},
		{name: "negative rating", field: "rating", value: -0.5, status: http.StatusBadRequest},
		{name: "rating above ten", field: "rating", value: 10.5, status: http.StatusBadRequest},
		{name: "null rating", field: "rating", value: nil, status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validGame()
			body[tt.field] = tt.value

			status, env := doRequest(t, fiberApp, http.MethodPost, "/games", body)
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusBadRequest {
				assert.NotEmpty(t, env.Details)
			}
		})
	}

	t.Run("omitted rating", func(t *testing.T) {
		body := validGame()
		delete(body, "rating")

		game := createGame(t, fiberApp, body)
		assert.Nil(t, game.Rating)
	})
}

func TestCreateGame_InvalidBodies(t *testing.T) {
	fiberApp := setupServer(t, "")

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{name: "malformed json", body: `{"title":`, status: http.StatusBadRequest, message: "Invalid request body"},
		{name: "json array", body: `[]`, status: http.StatusBadRequest, message: "Invalid request body"},
		{name: "json null", body: `null`, status: http.StatusBadRequest, message: "Invalid request body"},
		{name: "empty body", body: nil, status: http.StatusBadRequest, message: "Invalid game data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doRequest(t, fiberApp, http.MethodPost, "/games", tt.body)
			assert.Equal(t, tt.status, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Error)
		})
	}
}

func TestCreateGame_UniqueIDs(t *testing.T) {
	fiberApp := setupServer(t, "")

	seen := map[int]bool{}
	for i := range 5 {
		body := validGame()
		body["title"] = fmt.Sprintf("Game %d", i)

		game := createGame(t, fiberApp, body)
		assert.False(t, seen[game.ID], "id %d returned twice", game.ID)
		seen[game.ID] = true
	}
}

func TestListGames(t *testing.T) {
	fiberApp := setupServer(t, "")

	status, env := doRequest(t, fiberApp, http.MethodGet, "/games", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))

	createGame(t, fiberApp, validGame())
	second := validGame()
	second["title"] = "Second Game"
	createGame(t, fiberApp, second)

	status, env = doRequest(t, fiberApp, http.MethodGet, "/games", nil)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	var games []gamePayload
	require.NoError(t, json.Unmarshal(env.Data, &games))
	require.Len(t, games, 2)
	assert.Equal(t, "Second Game", games[0].Title)
}

func TestGetGame(t *testing.T) {
	fiberApp := setupServer(t, "")
	created := createGame(t, fiberApp, validGame())

	t.Run("round trip", func(t *testing.T) {
		status, env := doRequest(t, fiberApp, http.MethodGet, fmt.Sprintf("/games/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		assert.Equal(t, created, decodeGame(t, env))
	})

	t.Run("never created", func(t *testing.T) {
		status, env := doRequest(t, fiberApp, http.MethodGet, "/games/99999", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
		assert.Equal(t, "Game not found", env.Error)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		status, env := doRequest(t, fiberApp, http.MethodGet, "/games/abc", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Game not found", env.Error)
	})
}

func TestUpdateGame(t *testing.T) {
	fiberApp := setupServer(t, "")
	created := createGame(t, fiberApp, validGame())
	path := fmt.Sprintf("/games/%d", created.ID)

	t.Run("replaces the game", func(t *testing.T) {
		body := map[string]any{
			"title":       "Updated Game",
			"genre":       "Updated Genre",
			"platform":    "Updated Platform",
			"releaseYear": 2024,
			"rating":      9,
		}

		status, env := doRequest(t, fiberApp, http.MethodPut, path, body)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Game updated successfully", env.Message)

		game := decodeGame(t, env)
		assert.Equal(t, created.ID, game.ID)
		assert.Equal(t, "Updated Game", game.Title)
		assert.Equal(t, "Updated Genre", game.Genre)
		assert.Equal(t, "Updated Platform", game.Platform)
		assert.Equal(t, 2024, game.ReleaseYear)
		require.NotNil(t, game.Rating)
		assert.Equal(t, float64(9), *game.Rating)
		assert.Nil(t, game.Description)
	})

	t.Run("invalid data", func(t *testing.T) {
		body := validGame()
		body["platform"] = ""

		status, env := doRequest(t, fiberApp, http.MethodPut, path, body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, env.Details)
	})

	t.Run("unknown id wins over invalid data", func(t *testing.T) {
		status, env := doRequest(t, fiberApp, http.MethodPut, "/games/99999", map[string]any{})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Game not found", env.Error)
	})
}

func TestDeleteGame(t *testing.T) {
	fiberApp := setupServer(t, "")
	created := createGame(t, fiberApp, validGame())
	path := fmt.Sprintf("/games/%d", created.ID)

	status, env := doRequest(t, fiberApp, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Game deleted successfully", env.Message)

	status, _ = doRequest(t, fiberApp, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)

	for range 2 {
		status, env = doRequest(t, fiberApp, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Game not found", env.Error)
	}
}

func TestUnmatchedRoute(t *testing.T) {
	fiberApp := setupServer(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPatch, "/games/1"},
		{http.MethodPost, "/games/1"},
	} {
		status, env := doRequest(t, fiberApp, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, status, "%s %s", tc.method, tc.path)
		assert.False(t, env.Success)
		assert.Equal(t, "Route not found", env.Error)
	}
}

func TestHealth(t *testing.T) {
	fiberApp := setupServer(t, "")

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>catalog</h1>"), 0o644))

	fiberApp := setupServer(t, dir)

	resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "catalog")

	status, env := doRequest(t, fiberApp, http.MethodGet, "/missing.js", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", env.Error)
}
