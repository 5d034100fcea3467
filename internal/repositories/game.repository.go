package repositories

import (
	"context"
	"errors"

	. "gamecatalog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*Game, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Game, error)
	Create(ctx context.Context, tx *gorm.DB, input GameInput) (*Game, error)
	Update(ctx context.Context, tx *gorm.DB, id int, input GameInput) (*Game, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error)
}

type gameRepository struct {
	log logger.Logger
}

func NewGameRepository() GameRepository {
	return &gameRepository{
		log: logger.New("gameRepository"),
	}
}

func (r *gameRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("ListAll")

	games, err := gorm.G[*Game](tx).
		Order("created_at DESC, id DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list games", err)
	}

	if games == nil {
		games = []*Game{}
	}

	return games, nil
}

func (r *gameRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	game, err := gorm.G[*Game](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, log.Err("failed to get game", err, "id", id)
	}

	return game, nil
}

func (r *gameRepository) Create(ctx context.Context, tx *gorm.DB, input GameInput) (*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("Create")

	game := input.ToGame()
	if err := tx.WithContext(ctx).Select(MutableColumns).Create(game).Error; err != nil {
		return nil, log.Err("failed to create game", err, "title", input.Title)
	}

	created, err := r.GetByID(ctx, tx, game.ID)
	if err != nil {
		return nil, log.Err("failed to load created game", err, "id", game.ID)
	}

	log.Info("Game created", "id", created.ID)
	return created, nil
}

func (r *gameRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id int,
	input GameInput,
) (*Game, error) {
	log := r.log.TraceFromContext(ctx).Function("Update")

	result := tx.WithContext(ctx).
		Model(&Game{}).
		Where("id = ?", id).
		Updates(input.Columns())
	if result.Error != nil {
		return nil, log.Err("failed to update game", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return nil, ErrGameNotFound
	}

	updated, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return nil, log.Err("failed to load updated game", err, "id", id)
	}

	log.Info("Game updated", "id", id)
	return updated, nil
}

func (r *gameRepository) Delete(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	rows, err := gorm.G[Game](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return false, log.Err("failed to delete game", err, "id", id)
	}

	if rows > 0 {
		log.Info("Game deleted", "id", id)
	}

	return rows > 0, nil
}
