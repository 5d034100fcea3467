package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Ratings are numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	MinReleaseYear = 1970
	// ReleaseYearLookahead is how many years past the current one a release may be announced.
	ReleaseYearLookahead = 5
	MinRating            = 0
	MaxRating            = 10
)

type Game struct {
	BaseModel
	Title       string           `gorm:"type:text;not null"            json:"title"`
	Genre       string           `gorm:"type:text;not null"            json:"genre"`
	Platform    string           `gorm:"type:text;not null"            json:"platform"`
	ReleaseYear int              `gorm:"column:release_year;not null"  json:"releaseYear"`
	Rating      *decimal.Decimal `gorm:"type:decimal(3,1)"             json:"rating"`
	Description *string          `gorm:"type:text"                     json:"description"`
}

func (Game) TableName() string {
	return "games"
}

func (g *Game) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(g.Title) == "" {
		return gorm.ErrInvalidValue
	}
	if strings.TrimSpace(g.Genre) == "" {
		return gorm.ErrInvalidValue
	}
	if strings.TrimSpace(g.Platform) == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

// GameInput holds the client-writable columns of a game. The id and
// timestamps are always assigned by the store.
type GameInput struct {
	Title       string           `json:"title"`
	Genre       string           `json:"genre"`
	Platform    string           `json:"platform"`
	ReleaseYear int              `json:"releaseYear"`
	Rating      *decimal.Decimal `json:"rating,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// MutableColumns lists the columns written by inserts and updates, in storage naming.
var MutableColumns = []string{
	"title",
	"genre",
	"platform",
	"release_year",
	"rating",
	"description",
}

func (in GameInput) ToGame() *Game {
	return &Game{
		Title:       in.Title,
		Genre:       in.Genre,
		Platform:    in.Platform,
		ReleaseYear: in.ReleaseYear,
		Rating:      in.Rating,
		Description: in.Description,
	}
}

// Columns maps the input onto storage column names. Nil rating and
// description are kept so an update clears them.
func (in GameInput) Columns() map[string]any {
	return map[string]any{
		"title":        in.Title,
		"genre":        in.Genre,
		"platform":     in.Platform,
		"release_year": in.ReleaseYear,
		"rating":       in.Rating,
		"description":  in.Description,
	}
}
