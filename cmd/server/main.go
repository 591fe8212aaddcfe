package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/user/streamflix/internal/admin"
	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/handler"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/router"
	"github.com/user/streamflix/internal/service"
	"gorm.io/gorm/logger"
)

func main() {
	// 加载配置
	cfg := config.Load()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		logging.Error().Err(err).Msg("配置无效")
		os.Exit(1)
	}

	// 初始化数据库
	gormLevel := logger.Warn
	if logging.ParseLevel(cfg.LogLevel) <= logging.ParseLevel("debug") {
		gormLevel = logger.Info
	}
	db, err := repository.InitDB(repository.DBConfig{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DatabaseURL,
		LogLevel: gormLevel,
	})
	if err != nil {
		logging.Error().Err(err).Msg("数据库连接失败")
		os.Exit(1)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)

	h := handler.NewHandler(services, cfg, admin.NewSite())
	r, err := router.NewEngine(h)
	if err != nil {
		logging.Error().Err(err).Msg("初始化路由失败")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 启动定时清理任务
	service.NewCleanupService(repos.Movie, cfg.MediaDir).Start(ctx)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("服务器启动失败")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("服务器强制关闭")
	}

	logging.Info().Msg("服务器已退出")
}
