package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/validation"
)

// MovieForm 后台影片表单
type MovieForm struct {
	Title           string `form:"title" json:"title" validate:"required,max=100"`
	Category        string `form:"category" json:"category" validate:"required,category"`
	CreationDate    string `form:"creation_date" json:"creation_date" validate:"omitempty,datetime=2006-01-02"`
	DurationMinutes int    `form:"duration_minutes" json:"duration_minutes" validate:"gte=0"`
	Description     string `form:"description" json:"description"`
}

// EpisodeForm 后台剧集表单
type EpisodeForm struct {
	Title     string `form:"title" json:"title" validate:"required,max=100"`
	VideoLink string `form:"video_link" json:"video_link" validate:"required,http_url,max=200"`
}

// CatalogAdminService 后台影片与剧集管理
type CatalogAdminService struct {
	repos *repository.Repositories
}

// NewCatalogAdminService 创建后台管理服务
func NewCatalogAdminService(repos *repository.Repositories) *CatalogAdminService {
	return &CatalogAdminService{repos: repos}
}

func (f *MovieForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.ToUpper(strings.TrimSpace(f.Category))
	f.CreationDate = strings.TrimSpace(f.CreationDate)
}

func (f *MovieForm) apply(movie *model.Movie) {
	movie.Title = f.Title
	movie.Category = model.Category(f.Category)
	movie.DurationMinutes = f.DurationMinutes
	movie.Description = f.Description
	if f.CreationDate != "" {
		// 已通过 datetime 校验
		movie.CreationDate, _ = time.Parse("2006-01-02", f.CreationDate)
	}
}

// CreateMovie 创建影片，thumbnail 为媒体目录下的相对路径
func (s *CatalogAdminService) CreateMovie(ctx context.Context, form MovieForm, thumbnail string) (*model.Movie, error) {
	form.normalize()
	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	movie := &model.Movie{Thumbnail: thumbnail}
	form.apply(movie)

	if err := s.repos.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

// UpdateMovie 更新影片，thumbnail 为空时保留原缩略图。观看次数不可修改。
func (s *CatalogAdminService) UpdateMovie(ctx context.Context, id int, form MovieForm, thumbnail string) (*model.Movie, error) {
	form.normalize()
	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	movie, err := s.repos.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	form.apply(movie)
	if thumbnail != "" {
		movie.Thumbnail = thumbnail
	}

	if err := s.repos.Movie.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return movie, nil
}

// DeleteMovie 删除影片及其剧集
func (s *CatalogAdminService) DeleteMovie(ctx context.Context, id int) error {
	deleted, err := s.repos.Movie.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if !deleted {
		return ErrMovieNotFound
	}
	return nil
}

// CreateEpisode 为影片添加剧集
func (s *CatalogAdminService) CreateEpisode(ctx context.Context, movieID int, form EpisodeForm) (*model.Episode, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.VideoLink = strings.TrimSpace(form.VideoLink)
	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	movie, err := s.repos.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", movieID, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	episode := &model.Episode{MovieID: movieID, Title: form.Title, VideoLink: form.VideoLink}
	if err := s.repos.Episode.Create(ctx, episode); err != nil {
		return nil, fmt.Errorf("create episode: %w", err)
	}
	return episode, nil
}

// UpdateEpisode 更新剧集
func (s *CatalogAdminService) UpdateEpisode(ctx context.Context, id int, form EpisodeForm) (*model.Episode, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.VideoLink = strings.TrimSpace(form.VideoLink)
	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	episode, err := s.repos.Episode.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find episode %d: %w", id, err)
	}
	if episode == nil {
		return nil, ErrEpisodeNotFound
	}

	episode.Title = form.Title
	episode.VideoLink = form.VideoLink
	if err := s.repos.Episode.Update(ctx, episode); err != nil {
		return nil, fmt.Errorf("update episode: %w", err)
	}
	return episode, nil
}

// DeleteEpisode 删除剧集
func (s *CatalogAdminService) DeleteEpisode(ctx context.Context, id int) error {
	deleted, err := s.repos.Episode.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	if !deleted {
		return ErrEpisodeNotFound
	}
	return nil
}

// UserHistory 用户看过的影片
func (s *CatalogAdminService) UserHistory(ctx context.Context, userID int) ([]*model.Movie, error) {
	return s.repos.History.ListMovies(ctx, userID)
}

// ListUsers 全部用户
func (s *CatalogAdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repos.User.ListAll(ctx)
}

// RoleForm 后台修改用户角色
type RoleForm struct {
	Role string `form:"role" json:"role" validate:"required,oneof=user admin"`
}

// SetUserRole 修改用户角色
func (s *CatalogAdminService) SetUserRole(ctx context.Context, userID int, form RoleForm) (*model.User, error) {
	form.Role = strings.ToLower(strings.TrimSpace(form.Role))
	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.repos.User.UpdateRole(ctx, userID, form.Role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = form.Role
	return user, nil
}
