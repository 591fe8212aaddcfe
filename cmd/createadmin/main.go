// Package main 创建或提升管理员账号
//
// 用法:
//
//	go run ./cmd/createadmin -username admin -email admin@example.com -password 'change-me-now'
//
// 用户已存在时只把角色改为 admin，不修改密码。
package main

import (
	"context"
	"flag"
	"os"

	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/service"
	"gorm.io/gorm/logger"
)

var (
	username = flag.String("username", "", "管理员用户名")
	email    = flag.String("email", "", "管理员邮箱")
	password = flag.String("password", "", "管理员密码（至少 8 位）")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := repository.InitDB(repository.DBConfig{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DatabaseURL,
		LogLevel: logger.Silent,
	})
	if err != nil {
		logging.Error().Err(err).Msg("数据库连接失败")
		os.Exit(1)
	}

	ctx := context.Background()
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)

	user, err := repos.User.FindByUsername(ctx, *username)
	if err != nil {
		logging.Error().Err(err).Msg("查询用户失败")
		os.Exit(1)
	}

	if user == nil {
		user, err = services.Account.SignUp(ctx, service.SignUpForm{
			Username:  *username,
			Email:     *email,
			Password1: *password,
			Password2: *password,
		})
		if err != nil {
			logging.Error().Err(err).Msg("创建用户失败")
			os.Exit(1)
		}
		logging.Info().Int("user_id", user.ID).Msg("用户已创建")
	}

	if _, err := services.Admin.SetUserRole(ctx, user.ID, service.RoleForm{Role: model.RoleAdmin}); err != nil {
		logging.Error().Err(err).Msg("设置管理员失败")
		os.Exit(1)
	}
	logging.Info().Str("username", user.Username).Msg("已设为管理员")
}
