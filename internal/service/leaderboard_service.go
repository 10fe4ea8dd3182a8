package service

import (
	"context"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	LeaderboardLimit    = 100
	LeaderboardPageSize = 50
)

// LeaderboardService Cache 可为 nil，此时每次都直接查库
type LeaderboardService struct {
	Store LeaderboardStore
	Cache LeaderboardCache
}

func NewLeaderboardService(store LeaderboardStore, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{Store: store, Cache: cache}
}

// UpsertEntry 整体覆盖该学生的排行榜记录
func (s *LeaderboardService) UpsertEntry(ctx context.Context, studentID, studentName string, score, totalQuestions int, averageScore float64) error {
	entry := &model.LeaderboardEntry{
		StudentID:      studentID,
		StudentName:    studentName,
		Score:          score,
		TotalQuestions: totalQuestions,
		AverageScore:   averageScore,
	}
	if err := s.Store.Upsert(ctx, entry); err != nil {
		return util.StoreError(err)
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			logger.Log.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
		}
	}
	return nil
}

// GetLeaderboard 前 100 名，名次按返回顺序从 1 开始，每次读取时重新计算
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]model.LeaderboardEntry, len(entries))
	for i, e := range entries {
		e.Rank = i + 1
		ranked[i] = e
	}
	return ranked, nil
}

func (s *LeaderboardService) load(ctx context.Context) ([]model.LeaderboardEntry, error) {
	// 代号在查库之前取得，查库期间发生的更新会让这次回填落到旧代号上
	fill := false
	var gen int64
	if s.Cache != nil {
		entries, g, hit, err := s.Cache.Get(ctx)
		switch {
		case err != nil:
			monitoring.LeaderboardCacheCounter.WithLabelValues("error").Inc()
			logger.Log.Warn("Leaderboard cache read failed", zap.Error(err))
		case hit:
			monitoring.LeaderboardCacheCounter.WithLabelValues("hit").Inc()
			return entries, nil
		default:
			monitoring.LeaderboardCacheCounter.WithLabelValues("miss").Inc()
			fill, gen = true, g
		}
	}

	entries, err := s.Store.ListTop(ctx, LeaderboardLimit)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	if fill {
		if err := s.Cache.Set(ctx, gen, entries); err != nil {
			logger.Log.Warn("Failed to populate leaderboard cache", zap.Error(err))
		}
	}
	return entries, nil
}

// TopN 取排好序的前 n 条
func TopN(entries []model.LeaderboardEntry, n int) []model.LeaderboardEntry {
	if n < 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
