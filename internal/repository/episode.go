package repository

import (
	"context"
	"errors"

	"github.com/user/streamflix/internal/model"
	"gorm.io/gorm"
)

type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Create 创建剧集
func (r *EpisodeRepository) Create(ctx context.Context, episode *model.Episode) error {
	return r.db.WithContext(ctx).Create(episode).Error
}

// Update 更新剧集标题和链接
func (r *EpisodeRepository) Update(ctx context.Context, episode *model.Episode) error {
	return r.db.WithContext(ctx).Model(&model.Episode{}).
		Where("id = ?", episode.ID).
		Select("title", "video_link").
		Updates(episode).Error
}

// Delete 删除剧集
func (r *EpisodeRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Episode{}, id)
	return result.RowsAffected > 0, result.Error
}

// FindByID 根据 ID 查找剧集，不存在时返回 nil, nil
func (r *EpisodeRepository) FindByID(ctx context.Context, id int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.WithContext(ctx).First(&episode, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// ListByMovie 影片下的全部剧集
func (r *EpisodeRepository) ListByMovie(ctx context.Context, movieID int) ([]*model.Episode, error) {
	var episodes []*model.Episode
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Scopes(defaultOrder).
		Find(&episodes).Error
	return episodes, err
}
