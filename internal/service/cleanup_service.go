package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/repository"
)

// ThumbnailDir 缩略图在媒体目录下的子目录
const ThumbnailDir = "thumb_movies"

// CleanupService 清理服务：删除没有影片引用的缩略图文件
type CleanupService struct {
	movies   *repository.MovieRepository
	mediaDir string
	interval time.Duration
	grace    time.Duration // 刚上传、尚未写入数据库的文件不删除
}

// NewCleanupService 创建清理服务
func NewCleanupService(movies *repository.MovieRepository, mediaDir string) *CleanupService {
	return &CleanupService{
		movies:   movies,
		mediaDir: mediaDir,
		interval: 24 * time.Hour,
		grace:    time.Hour,
	}
}

// Start 启动定时清理任务，ctx 取消时退出
func (s *CleanupService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// 启动时先运行一次
		s.runCleanup(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runCleanup(ctx)
			}
		}
	}()
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	logging.Info().Str("component", "cleanup").Msg("开始清理未引用的缩略图...")

	removed, err := s.RemoveOrphans(ctx, time.Now())
	if err != nil {
		logging.Error().Err(err).Str("component", "cleanup").Msg("清理缩略图失败")
		return
	}
	logging.Info().Str("component", "cleanup").Int("removed", removed).Msg("缩略图清理完成")
}

// RemoveOrphans 删除早于 now-grace 且未被任何影片引用的缩略图，返回删除数量
func (s *CleanupService) RemoveOrphans(ctx context.Context, now time.Time) (int, error) {
	referenced, err := s.movies.Thumbnails(ctx)
	if err != nil {
		return 0, err
	}
	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[filepath.Clean(p)] = struct{}{}
	}

	dir := filepath.Join(s.mediaDir, ThumbnailDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rel := filepath.Join(ThumbnailDir, entry.Name())
		if _, ok := keep[rel]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < s.grace {
			continue
		}

		if err := os.Remove(filepath.Join(s.mediaDir, rel)); err != nil {
			logging.Warn().Err(err).Str("file", rel).Msg("删除缩略图失败")
			continue
		}
		removed++
	}
	return removed, nil
}
