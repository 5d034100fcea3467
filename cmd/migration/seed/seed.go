package seed

import (
	. "gamecatalog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func ratingPtr(value string) *decimal.Decimal {
	rating := decimal.RequireFromString(value)
	return &rating
}

func Games() []Game {
	return []Game{
		{
			Title:       "The Legend of Zelda: Breath of the Wild",
			Genre:       "Action-Adventure",
			Platform:    "Nintendo Switch",
			ReleaseYear: 2017,
			Rating:      ratingPtr("9.7"),
			Description: stringPtr("Open-air adventure across a ruined Hyrule."),
		},
		{
			Title:       "Hades",
			Genre:       "Roguelike",
			Platform:    "PC",
			ReleaseYear: 2020,
			Rating:      ratingPtr("9.3"),
			Description: stringPtr("Fight out of the underworld, one escape attempt at a time."),
		},
		{
			Title:       "Celeste",
			Genre:       "Platformer",
			Platform:    "PC",
			ReleaseYear: 2018,
			Rating:      ratingPtr("9.1"),
		},
		{
			Title:       "Stardew Valley",
			Genre:       "Simulation",
			Platform:    "PC",
			ReleaseYear: 2016,
			Rating:      ratingPtr("8.9"),
			Description: stringPtr("Inherit a farm and rebuild a valley community."),
		},
		{
			Title:       "Tetris",
			Genre:       "Puzzle",
			Platform:    "Game Boy",
			ReleaseYear: 1989,
		},
	}
}

// Seed inserts the sample catalog, skipping games already present by title and platform.
func Seed(db *gorm.DB, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	for _, game := range Games() {
		var existing Game
		if err := db.First(&existing, "title = ? AND platform = ?", game.Title, game.Platform).Error; err == nil {
			log.Debug("Game already exists", "title", game.Title, "platform", game.Platform)
			continue
		}

		log.Info("Seeding game", "title", game.Title, "platform", game.Platform)
		if err := db.Create(&game).Error; err != nil {
			return log.Err("failed to create game", err, "title", game.Title)
		}
	}

	return nil
}
