// @title Tutor 后端 API
// @version 1.0
// @description 学习资料问答、测验与学习进度服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"fmt"
	"log"
	"time"
	"tutor_backend/internal/app"
	"tutor_backend/internal/config"
	"tutor_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	issueToken := flag.String("issue-token", "", "为指定学生签发访问令牌并退出")
	name := flag.String("name", "", "配合 -issue-token，写入用户显示名")
	email := flag.String("email", "", "配合 -issue-token，写入用户邮箱")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "令牌有效期")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *issueToken != "" {
		logger.InitLogger(cfg)
		token, err := app.IssueToken(cfg, *issueToken, *name, *email, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return
	}

	application.Run()
}
