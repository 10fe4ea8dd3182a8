package service

import (
	"context"
	"fmt"
	"testing"
	"tutor_backend/internal/model"
)

func TestUpsertEntryIsFullReplace(t *testing.T) {
	f := newFixture()
	svc := NewLeaderboardService(f.leaderboard, nil)
	ctx := context.Background()

	if err := svc.UpsertEntry(ctx, "s1", "Alice", 10, 5, 80); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertEntry(ctx, "s1", "Alice", 12, 6, 75); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	entries, err := svc.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %+v", entries)
	}
	e := entries[0]
	if e.Score != 12 || e.TotalQuestions != 6 || e.AverageScore != 75 || e.Rank != 1 {
		t.Fatalf("expected second upsert values, got %+v", e)
	}
}

func TestGetLeaderboardOrderingAndRanks(t *testing.T) {
	f := newFixture()
	svc := NewLeaderboardService(f.leaderboard, nil)
	ctx := context.Background()

	svc.UpsertEntry(ctx, "early", "Early", 5, 0, 0)
	svc.UpsertEntry(ctx, "top", "Top", 9, 0, 0)
	svc.UpsertEntry(ctx, "late", "Late", 5, 0, 0)
	svc.UpsertEntry(ctx, "low", "Low", 1, 0, 0)

	entries, err := svc.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	want := []string{"top", "late", "early", "low"}
	for i, id := range want {
		if entries[i].StudentID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, entries[i].StudentID)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestGetLeaderboardCapsAtLimit(t *testing.T) {
	f := newFixture()
	svc := NewLeaderboardService(f.leaderboard, nil)
	ctx := context.Background()
	for i := 0; i < LeaderboardLimit+20; i++ {
		svc.UpsertEntry(ctx, fmt.Sprintf("s%d", i), "n", i, 0, 0)
	}

	entries, err := svc.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(entries) != LeaderboardLimit || entries[LeaderboardLimit-1].Rank != LeaderboardLimit {
		t.Fatalf("expected %d ranked entries, got %d", LeaderboardLimit, len(entries))
	}

	page := TopN(entries, LeaderboardPageSize)
	if len(page) != LeaderboardPageSize || page[0].Rank != 1 || page[len(page)-1].Rank != LeaderboardPageSize {
		t.Fatalf("unexpected top page of %d", len(page))
	}
}

func TestLeaderboardCacheHitAndInvalidation(t *testing.T) {
	f := newFixture()
	cache := &memCache{}
	svc := NewLeaderboardService(f.leaderboard, cache)
	ctx := context.Background()

	svc.UpsertEntry(ctx, "s1", "Alice", 3, 0, 0)
	if _, err := svc.GetLeaderboard(ctx); err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if _, err := svc.GetLeaderboard(ctx); err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if f.leaderboard.lists != 1 {
		t.Fatalf("expected second read to be served from cache, store reads=%d", f.leaderboard.lists)
	}
	for _, e := range cache.current() {
		if e.Rank != 0 {
			t.Fatalf("ranks must not be cached, got %+v", e)
		}
	}

	svc.UpsertEntry(ctx, "s2", "Bob", 7, 0, 0)
	if cache.invalidated != 2 {
		t.Fatalf("expected invalidation on every upsert, got %d", cache.invalidated)
	}
	entries, _ := svc.GetLeaderboard(ctx)
	if len(entries) != 2 || entries[0].StudentID != "s2" || entries[0].Rank != 1 {
		t.Fatalf("expected fresh leaderboard after invalidation, got %+v", entries)
	}
}

// racingStore 在查库返回之后、回填缓存之前插入一次更新
type racingStore struct {
	*memLeaderboard
	svc  *LeaderboardService
	once bool
}

func (s *racingStore) ListTop(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	entries, err := s.memLeaderboard.ListTop(ctx, limit)
	if !s.once {
		s.once = true
		if err := s.svc.UpsertEntry(ctx, "s1", "Alice", 99, 0, 0); err != nil {
			return nil, err
		}
	}
	return entries, err
}

func TestLeaderboardUpsertDuringReadIsNotMaskedByCache(t *testing.T) {
	f := newFixture()
	store := &racingStore{memLeaderboard: f.leaderboard}
	svc := NewLeaderboardService(store, &memCache{})
	store.svc = svc
	ctx := context.Background()

	f.leaderboard.Upsert(ctx, &model.LeaderboardEntry{StudentID: "s1", StudentName: "Alice", Score: 1})

	first, err := svc.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(first) != 1 || first[0].Score != 1 {
		t.Fatalf("expected the pre-update list on the racing read, got %+v", first)
	}

	next, err := svc.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("get leaderboard: %v", err)
	}
	if len(next) != 1 || next[0].Score != 99 {
		t.Fatalf("expected the update to be visible on the next read, got %+v", next)
	}
}
