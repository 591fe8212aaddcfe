package repository

import (
	"context"
	"time"

	"github.com/user/streamflix/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Add 记录观看，已存在时不做任何修改
func (r *HistoryRepository) Add(ctx context.Context, userID, movieID int) error {
	record := &model.WatchedMovie{
		UserID:    userID,
		MovieID:   movieID,
		WatchedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

// Contains 用户是否看过该影片
func (r *HistoryRepository) Contains(ctx context.Context, userID, movieID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchedMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// CountByUser 用户看过的影片数量
func (r *HistoryRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchedMovie{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

// ListMovies 用户看过的影片，按首次观看时间排序
func (r *HistoryRepository) ListMovies(ctx context.Context, userID int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Joins("JOIN watched_movies ON watched_movies.movie_id = movies.id").
		Where("watched_movies.user_id = ?", userID).
		Order("watched_movies.watched_at ASC").
		Order("movies.id ASC").
		Find(&movies).Error
	return movies, err
}
