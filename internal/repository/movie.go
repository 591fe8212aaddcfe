package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/user/streamflix/internal/model"
	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// defaultOrder 默认排序：标题，其次 ID
func defaultOrder(db *gorm.DB) *gorm.DB {
	return db.Order("title ASC").Order("id ASC")
}

// Create 创建影片
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Omit("Episodes").Create(movie).Error
}

// Update 更新影片基本信息（不含观看次数）
func (r *MovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movie.ID).
		Select("title", "category", "creation_date", "duration_minutes", "description", "thumbnail").
		Updates(movie).Error
}

// Delete 删除影片，剧集由外键级联删除
func (r *MovieRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Movie{}, id)
	return result.RowsAffected > 0, result.Error
}

// FindByID 根据 ID 查找影片，不存在时返回 nil, nil
func (r *MovieRepository) FindByID(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Preload("Episodes", defaultOrder).
		First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListAll 全部影片，默认排序
func (r *MovieRepository) ListAll(ctx context.Context) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).Scopes(defaultOrder).Find(&movies).Error
	return movies, err
}

// Recent 最新影片
func (r *MovieRepository) Recent(ctx context.Context, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Order("creation_date DESC").
		Scopes(defaultOrder).
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Trending 观看次数最多的影片
func (r *MovieRepository) Trending(ctx context.Context, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Order("view_count DESC").
		Scopes(defaultOrder).
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Related 同分类的其他影片
func (r *MovieRepository) Related(ctx context.Context, movie *model.Movie, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ?", movie.Category, movie.ID).
		Scopes(defaultOrder).
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// SearchTitle 标题包含 query（不区分大小写）
func (r *MovieRepository) SearchTitle(ctx context.Context, query string) ([]*model.Movie, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var movies []*model.Movie
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Scopes(defaultOrder).
		Find(&movies).Error
	return movies, err
}

// IncrementViews 原子地将观看次数加一，影片不存在时返回 false
func (r *MovieRepository) IncrementViews(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	return result.RowsAffected > 0, result.Error
}

// ViewCount 读取当前观看次数
func (r *MovieRepository) ViewCount(ctx context.Context, id int) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", id).
		Select("view_count").
		Scan(&count).Error
	return count, err
}

// Thumbnails 所有被引用的缩略图路径
func (r *MovieRepository) Thumbnails(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("thumbnail <> ''").
		Pluck("thumbnail", &paths).Error
	return paths, err
}

// Count 影片总数
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Count(&count).Error
	return count, err
}
