// Package testutil 测试辅助：临时 SQLite 数据库与样例数据
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 在临时目录创建已迁移的 SQLite 数据库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := repository.InitDB(repository.DBConfig{
		Driver:   "sqlite",
		DSN:      dsn,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRepos 创建基于临时数据库的仓库集合
func NewRepos(t testing.TB) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewDB(t))
}

// Date 构造 UTC 日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateMovie 写入一部影片
func CreateMovie(t testing.TB, repos *repository.Repositories, title string, category model.Category, views int, created time.Time) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title:           title,
		Category:        category,
		ViewCount:       views,
		CreationDate:    created,
		DurationMinutes: 90,
		Description:     title + " description",
	}
	require.NoError(t, repos.Movie.Create(context.Background(), movie))
	return movie
}

// CreateUser 写入一个用户
func CreateUser(t testing.TB, repos *repository.Repositories, username, email, password string) *model.User {
	t.Helper()

	user := &model.User{Username: username, Email: email}
	require.NoError(t, repos.User.Create(context.Background(), user, password))
	return user
}

// WriteFile 在 dir 下写入一个小文件，自动创建上级目录
func WriteFile(t testing.TB, dir, rel string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return path
}
