package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamecatalog/internal/client"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(viper.New())
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--api-url", apiURL}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestApplyFormFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFormFlags(flags)
	require.NoError(t, flags.Parse([]string{"--title", "Hades", "--rating", "9.5"}))

	rating := 7.0
	form := applyFormFlags(flags, client.GameForm{
		Title:       "Old",
		Genre:       "Roguelike",
		ReleaseYear: 2020,
		Rating:      &rating,
	})

	assert.Equal(t, "Hades", form.Title)
	assert.Equal(t, "Roguelike", form.Genre)
	assert.Equal(t, 2020, form.ReleaseYear)
	require.NotNil(t, form.Rating)
	assert.Equal(t, 9.5, *form.Rating)

	require.NoError(t, flags.Parse([]string{"--no-rating"}))
	assert.Nil(t, applyFormFlags(flags, form).Rating)
}

func TestCreateCommand(t *testing.T) {
	var received map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1},"message":"Game created successfully"}`))
	})
	mux.HandleFunc("GET /games", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[],"count":0}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	out, err := run(t, server.URL,
		"create", "--title", " Celeste ", "--genre", "Platformer", "--platform", "PC", "--year", "2018")
	require.NoError(t, err)

	assert.Contains(t, out, "Game created successfully")
	assert.Equal(t, "Celeste", received["title"])
	assert.Equal(t, float64(2018), received["releaseYear"])
	assert.Nil(t, received["rating"])
}

func TestGetCommand_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Game not found"}`))
	}))
	defer server.Close()

	_, err := run(t, server.URL, "get", "7")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))

	_, err = run(t, server.URL, "get", "seven")
	assert.ErrorContains(t, err, "invalid game id")
}

func TestWatchCommand_RequiresValkey(t *testing.T) {
	_, err := run(t, "http://localhost:0", "watch")
	assert.ErrorContains(t, err, "--valkey-address")
}

func TestRootCommand_HasEveryOperation(t *testing.T) {
	root := newRootCmd(viper.New())

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"list", "get", "create", "update", "delete", "watch"} {
		assert.Contains(t, names, want)
	}
}
