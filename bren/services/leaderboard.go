package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/NestcoinCo/bren/bren/database/repositories"
)

// rankedSource implements fuzzy.Source over ranked usernames.
type rankedSource []repositories.RankedUser

func (s rankedSource) Len() int            { return len(s) }
func (s rankedSource) String(i int) string { return s[i].Username }

// LeaderboardEntry is one row of the combined leaderboard, ranked by tips
// received within its platform.
type LeaderboardEntry struct {
	Rank              int    `json:"rank"`
	Platform          string `json:"platform"`
	Username          string `json:"username"`
	TipsReceived      int64  `json:"tipsReceived"`
	TipsSent          int64  `json:"tipsSent"`
	TipsReceivedCount int64  `json:"tipsReceivedCount"`
	TipsSentCount     int64  `json:"tipsSentCount"`
}

// LeaderboardService assembles leaderboards from the per-platform ranking
// aggregates.
type LeaderboardService struct {
	rankings repositories.RankingRepository
}

func NewLeaderboardService(rankings repositories.RankingRepository) *LeaderboardService {
	return &LeaderboardService{rankings: rankings}
}

// Query narrows a leaderboard request. Platform is FARCASTER, SLACK, or empty
// for both; Search fuzzy-matches usernames; Limit and Offset paginate after
// ranking.
type Query struct {
	Platform string
	Search   string
	Limit    int
	Offset   int
}

const defaultLeaderboardLimit = 50

// Leaderboard returns ranked entries for the requested platforms. Both
// platform queries run concurrently; ranks are assigned per platform before
// any search filter so a filtered view keeps real positions.
func (s *LeaderboardService) Leaderboard(ctx context.Context, q Query) ([]LeaderboardEntry, error) {
	platform := strings.ToUpper(q.Platform)

	var farcaster, slack []repositories.RankedUser
	g, gctx := errgroup.WithContext(ctx)

	if platform == "" || platform == "FARCASTER" {
		g.Go(func() error {
			var err error
			farcaster, err = s.rankings.FarcasterRankings(gctx)
			return err
		})
	}
	if platform == "" || platform == "SLACK" {
		g.Go(func() error {
			var err error
			slack, err = s.rankings.SlackRankings(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(farcaster)+len(slack))
	entries = append(entries, rank("FARCASTER", farcaster, q.Search)...)
	entries = append(entries, rank("SLACK", slack, q.Search)...)

	// Combined view interleaves platforms by received volume.
	if platform == "" {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TipsReceived > entries[j].TipsReceived
		})
	}

	return paginate(entries, q.Limit, q.Offset), nil
}

func rank(platform string, users []repositories.RankedUser, search string) []LeaderboardEntry {
	keep := make(map[int]bool, len(users))
	if search != "" {
		for _, m := range fuzzy.FindFrom(strings.ToLower(search), rankedSource(users)) {
			keep[m.Index] = true
		}
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		if search != "" && !keep[i] {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:              i + 1,
			Platform:          platform,
			Username:          u.Username,
			TipsReceived:      u.TipsReceived,
			TipsSent:          u.TipsSent,
			TipsReceivedCount: u.TipsReceivedCount,
			TipsSentCount:     u.TipsSentCount,
		})
	}
	return entries
}

func paginate(entries []LeaderboardEntry, limit, offset int) []LeaderboardEntry {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []LeaderboardEntry{}
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}
