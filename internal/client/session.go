package client

import (
	"strings"

	. "gamecatalog/internal/models"
)

// GameForm is what a user types into the add/edit form.
type GameForm struct {
	Title       string
	Genre       string
	Platform    string
	ReleaseYear int
	Rating      *float64
	Description string
}

// Payload trims the text fields and sends an unset rating as null.
func (f GameForm) Payload() map[string]any {
	payload := map[string]any{
		"title":       strings.TrimSpace(f.Title),
		"genre":       strings.TrimSpace(f.Genre),
		"platform":    strings.TrimSpace(f.Platform),
		"releaseYear": f.ReleaseYear,
		"rating":      nil,
		"description": strings.TrimSpace(f.Description),
	}
	if f.Rating != nil {
		payload["rating"] = *f.Rating
	}
	return payload
}

// FormFromGame prefills the form for editing.
func FormFromGame(game Game) GameForm {
	form := GameForm{
		Title:       game.Title,
		Genre:       game.Genre,
		Platform:    game.Platform,
		ReleaseYear: game.ReleaseYear,
	}
	if game.Rating != nil {
		rating := game.Rating.InexactFloat64()
		form.Rating = &rating
	}
	if game.Description != nil {
		form.Description = *game.Description
	}
	return form
}

// Session holds one user's view of the catalog: the loaded list and the game
// being edited, if any.
type Session struct {
	client    *Client
	Games     []Game
	editingID *int
}

func NewSession(client *Client) *Session {
	return &Session{client: client, Games: []Game{}}
}

func (s *Session) Refresh() error {
	games, err := s.client.ListGames()
	if err != nil {
		return err
	}
	s.Games = games
	return nil
}

func (s *Session) EditingID() (int, bool) {
	if s.editingID == nil {
		return 0, false
	}
	return *s.editingID, true
}

// BeginEdit switches the session into edit mode for a game from the loaded list.
func (s *Session) BeginEdit(id int) (GameForm, bool) {
	for _, game := range s.Games {
		if game.ID == id {
			s.editingID = &id
			return FormFromGame(game), true
		}
	}
	return GameForm{}, false
}

func (s *Session) CancelEdit() {
	s.editingID = nil
}

// Save updates the game in edit mode or creates a new one, then leaves edit
// mode and reloads the list. On failure the session is unchanged.
func (s *Session) Save(form GameForm) (string, error) {
	var message string
	var err error

	if id, editing := s.EditingID(); editing {
		_, message, err = s.client.UpdateGame(id, form.Payload())
	} else {
		_, message, err = s.client.CreateGame(form.Payload())
	}
	if err != nil {
		return "", err
	}

	s.CancelEdit()
	return message, s.Refresh()
}

// Delete removes a game. Deleting the game being edited also leaves edit mode.
func (s *Session) Delete(id int) (string, error) {
	message, err := s.client.DeleteGame(id)
	if err != nil {
		return "", err
	}

	if editing, ok := s.EditingID(); ok && editing == id {
		s.CancelEdit()
	}

	return message, s.Refresh()
}
