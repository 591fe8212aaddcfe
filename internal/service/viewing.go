package service

import (
	"context"
	"fmt"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// MovieDetail 详情页数据
type MovieDetail struct {
	Movie   *model.Movie
	Related []*model.Movie
}

// ViewingService 详情页访问记录：观看次数 +1 并写入观看历史
type ViewingService struct {
	repos   *repository.Repositories
	catalog *CatalogService
}

// NewViewingService 创建观看记录服务
func NewViewingService(repos *repository.Repositories, catalog *CatalogService) *ViewingService {
	return &ViewingService{repos: repos, catalog: catalog}
}

// Watch 在同一事务中增加观看次数并记录观看历史，提交后计算相关影片。
// 同一用户重复访问也会计数，观看历史保持唯一。用户不存在时返回 ErrUserNotFound。
func (s *ViewingService) Watch(ctx context.Context, userID, movieID int) (*MovieDetail, error) {
	if userID <= 0 {
		return nil, ErrUserNotFound
	}

	var movie *model.Movie
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		movie, err = tx.Movie.FindByID(ctx, movieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return ErrMovieNotFound
		}

		updated, err := tx.Movie.IncrementViews(ctx, movieID)
		if err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		if !updated {
			return ErrMovieNotFound
		}

		if err := tx.History.Add(ctx, userID, movieID); err != nil {
			return fmt.Errorf("add watch history: %w", err)
		}

		// 重新读取，包含并发请求带来的增量
		movie.ViewCount, err = tx.Movie.ViewCount(ctx, movieID)
		return err
	})
	if err != nil {
		if !IsNotFound(err) {
			logging.Ctx(ctx).Error().Err(err).Int("movie_id", movieID).Int("user_id", userID).Msg("记录观看失败")
		}
		return nil, err
	}

	related, err := s.catalog.RelatedTo(ctx, movie, DefaultRelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related movies: %w", err)
	}

	return &MovieDetail{Movie: movie, Related: related}, nil
}
