package service

import (
	"context"
	"fmt"

	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecentLimit   = 8
	DefaultTrendingLimit = 8
	DefaultRelatedLimit  = 5
)

// CatalogService 影片目录查询，所有方法只读
type CatalogService struct {
	movies *repository.MovieRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(movies *repository.MovieRepository) *CatalogService {
	return &CatalogService{movies: movies}
}

// Showcase 目录页面共用的最新、热门和推荐影片
type Showcase struct {
	Recent   []*model.Movie
	Trending []*model.Movie
	Featured *model.Movie
}

// CatalogPage 影片列表页数据
type CatalogPage struct {
	Movies []*model.Movie
	Showcase
}

// List 全部影片，按标题排序
func (s *CatalogService) List(ctx context.Context) ([]*model.Movie, error) {
	return s.movies.ListAll(ctx)
}

// Get 影片详情（含剧集），不修改观看次数
func (s *CatalogService) Get(ctx context.Context, id int) (*model.Movie, error) {
	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

// Recent 最新上线的影片，limit <= 0 时取默认值
func (s *CatalogService) Recent(ctx context.Context, limit int) ([]*model.Movie, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.movies.Recent(ctx, limit)
}

// Trending 观看次数最多的影片
func (s *CatalogService) Trending(ctx context.Context, limit int) ([]*model.Movie, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return s.movies.Trending(ctx, limit)
}

// Featured 最新的一部影片，目录为空时返回 nil
func (s *CatalogService) Featured(ctx context.Context) (*model.Movie, error) {
	movies, err := s.movies.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return movies[0], nil
}

// Related 同分类的其他影片
func (s *CatalogService) Related(ctx context.Context, movieID, limit int) ([]*model.Movie, error) {
	movie, err := s.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return s.RelatedTo(ctx, movie, limit)
}

// RelatedTo 与已加载影片同分类的其他影片
func (s *CatalogService) RelatedTo(ctx context.Context, movie *model.Movie, limit int) ([]*model.Movie, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	return s.movies.Related(ctx, movie, limit)
}

// Search 按标题搜索，空关键词返回空结果。关键词原样匹配，不去除空白。
func (s *CatalogService) Search(ctx context.Context, query string) ([]*model.Movie, error) {
	if query == "" {
		return []*model.Movie{}, nil
	}
	return s.movies.SearchTitle(ctx, query)
}

// Showcase 并发加载最新、热门和推荐影片
func (s *CatalogService) Showcase(ctx context.Context) (*Showcase, error) {
	sc := &Showcase{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sc.Recent, err = s.Recent(ctx, DefaultRecentLimit)
		return err
	})
	g.Go(func() (err error) {
		sc.Trending, err = s.Trending(ctx, DefaultTrendingLimit)
		return err
	})
	g.Go(func() (err error) {
		sc.Featured, err = s.Featured(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load showcase: %w", err)
	}
	return sc, nil
}

// Home 并发加载影片列表页所需的数据
func (s *CatalogService) Home(ctx context.Context) (*CatalogPage, error) {
	page := &CatalogPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Movies, err = s.List(ctx)
		return err
	})
	g.Go(func() error {
		sc, err := s.Showcase(ctx)
		if err != nil {
			return err
		}
		page.Showcase = *sc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog page: %w", err)
	}
	return page, nil
}
