package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NestcoinCo/bren/bren/database/repositories"
)

type fakeRankings struct {
	farcaster []repositories.RankedUser
	slack     []repositories.RankedUser
	err       error
}

func (f *fakeRankings) FarcasterRankings(context.Context) ([]repositories.RankedUser, error) {
	return f.farcaster, f.err
}

func (f *fakeRankings) SlackRankings(context.Context) ([]repositories.RankedUser, error) {
	return f.slack, f.err
}

func testRankings() *fakeRankings {
	return &fakeRankings{
		farcaster: []repositories.RankedUser{
			{UserID: 1, Username: "alice", TipsReceived: 300, TipsSent: 50},
			{UserID: 2, Username: "bob", TipsReceived: 100, TipsSent: 200},
		},
		slack: []repositories.RankedUser{
			{UserID: 10, Username: "carol", TipsReceived: 250, TipsSent: 10},
		},
	}
}

func Test_Leaderboard_singlePlatform(t *testing.T) {
	s := NewLeaderboardService(testRankings())

	entries, err := s.Leaderboard(context.Background(), Query{Platform: "FARCASTER"})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v, want alice at rank 1", entries[0])
	}
	if entries[1].Rank != 2 {
		t.Errorf("second entry rank = %d, want 2", entries[1].Rank)
	}
	for _, e := range entries {
		if e.Platform != "FARCASTER" {
			t.Errorf("platform = %q, want FARCASTER", e.Platform)
		}
	}
}

func Test_Leaderboard_combinedSortedByReceived(t *testing.T) {
	s := NewLeaderboardService(testRankings())

	entries, err := s.Leaderboard(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	want := []string{"alice", "carol", "bob"}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Username != name {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Username, name)
		}
	}
	// carol keeps her per-platform rank despite the combined ordering.
	if entries[1].Rank != 1 || entries[1].Platform != "SLACK" {
		t.Errorf("carol entry = %+v, want SLACK rank 1", entries[1])
	}
}

func Test_Leaderboard_fuzzyFilterKeepsRank(t *testing.T) {
	s := NewLeaderboardService(testRankings())

	entries, err := s.Leaderboard(context.Background(), Query{Platform: "FARCASTER", Search: "bob"})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Rank != 2 {
		t.Errorf("entry = %+v, want bob at rank 2", entries[0])
	}
}

func Test_Leaderboard_pagination(t *testing.T) {
	s := NewLeaderboardService(testRankings())

	entries, err := s.Leaderboard(context.Background(), Query{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Username != "bob" {
		t.Errorf("entry = %q, want bob", entries[0].Username)
	}

	empty, err := s.Leaderboard(context.Background(), Query{Offset: 100})
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len(entries) past end = %d, want 0", len(empty))
	}
}

func Test_Leaderboard_storeError(t *testing.T) {
	s := NewLeaderboardService(&fakeRankings{err: errors.New("db down")})
	if _, err := s.Leaderboard(context.Background(), Query{}); err == nil {
		t.Error("expected rankings error to propagate")
	}
}
