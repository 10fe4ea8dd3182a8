package app

import (
	"context"
	"time"
	"tutor_backend/internal/config"
	"tutor_backend/internal/model"
	"tutor_backend/internal/repository"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/database"
	"tutor_backend/pkg/logger"

	"go.uber.org/zap"
)

// IssueToken 为学生签发访问令牌，用于本地联调。
// name 非空时同时写入用户记录，使该学生出现在排行榜中。
func IssueToken(cfg *config.Config, studentID, name, email string, ttl time.Duration) (string, error) {
	if name != "" {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
		if err != nil {
			return "", err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		user := &model.User{ID: studentID, Name: name, Email: email, Role: model.Student}
		if err := repository.NewUserRepository(db).Upsert(context.Background(), user); err != nil {
			return "", err
		}
		logger.Log.Info("User record saved", zap.String("studentId", studentID), zap.String("name", name))
	}

	return util.GenerateJWT(studentID, email, cfg.JWT.Secret, ttl)
}
