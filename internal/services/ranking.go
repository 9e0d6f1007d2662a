package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/models"
	"puzzleboard/internal/repositories"

	"go.uber.org/zap"
)

const (
	leaderboardCacheKey = "leaderboard:top100"
	leaderboardCacheTTL = 30 * time.Second
	leaderboardLimit    = 100
)

// RankingService computes the global leaderboard and per-puzzle correct-solver
// lists from persisted submissions. All operations are read-only; the cached
// leaderboard is invalidated whenever an admin changes a submission.
type RankingService struct {
	puzzleRepo repositories.PuzzleRepository
	subRepo    repositories.SubmissionRepository
	cache      Cache
}

func NewRankingService(puzzleRepo repositories.PuzzleRepository,
	subRepo repositories.SubmissionRepository, cache Cache) *RankingService {
	return &RankingService{
		puzzleRepo: puzzleRepo,
		subRepo:    subRepo,
		cache:      cache,
	}
}

// ComputeLeaderboard returns the top-100 solvers ranked by distinct puzzles
// solved correctly, ties broken by the earliest first correct solve.
func (s *RankingService) ComputeLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		var cached []models.LeaderboardEntry
		if err := s.cache.Get(ctx, leaderboardCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.subRepo.GetCorrectRows(ctx)
	if err != nil {
		return nil, err
	}

	entries := buildLeaderboard(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, leaderboardCacheKey, entries, leaderboardCacheTTL); err != nil {
			logger.Log.Warn("Failed to cache leaderboard", zap.Error(err))
		}
	}

	return entries, nil
}

// InvalidateLeaderboard drops the cached ranking after a submission status
// change or deletion.
func (s *RankingService) InvalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, leaderboardCacheKey); err != nil {
		logger.Log.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// CorrectSolvers lists the distinct correct solvers of a puzzle in order of
// their first correct submission.
func (s *RankingService) CorrectSolvers(ctx context.Context, puzzleID int) ([]models.Solver, error) {
	if _, err := s.puzzleRepo.GetPuzzleByID(ctx, puzzleID); err != nil {
		return nil, err
	}

	rows, err := s.subRepo.GetCorrectRowsByPuzzle(ctx, puzzleID)
	if err != nil {
		return nil, err
	}

	return dedupeSolvers(rows), nil
}

// buildLeaderboard collapses correct rows in two stages. First each
// (name, puzzle) pair becomes a single credited solve keyed on the earliest
// submission, so repeat correct answers to one puzzle count once. Then solves
// are grouped by name, counting distinct puzzles and keeping the overall
// earliest timestamp as the tie-break. Rows must arrive ordered by
// submitted_at ascending.
func buildLeaderboard(rows []models.CorrectRow) []models.LeaderboardEntry {
	type solveKey struct {
		name     string
		puzzleID int
	}
	type solve struct {
		at    time.Time
		email *string
	}

	solves := make(map[solveKey]solve)
	for _, row := range rows {
		key := solveKey{name: row.Name, puzzleID: row.PuzzleID}
		if _, seen := solves[key]; !seen {
			solves[key] = solve{at: row.SubmittedAt, email: row.Email}
		}
	}

	type aggregate struct {
		count int
		first time.Time
		email *string
	}

	byName := make(map[string]*aggregate)
	for key, sv := range solves {
		agg, ok := byName[key.name]
		if !ok {
			byName[key.name] = &aggregate{count: 1, first: sv.at, email: sv.email}
			continue
		}
		agg.count++
		if sv.at.Before(agg.first) {
			agg.first = sv.at
			agg.email = sv.email
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := byName[names[i]], byName[names[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		if !a.first.Equal(b.first) {
			return a.first.Before(b.first)
		}
		// Exact ties are ordered by name so the result is deterministic.
		return names[i] < names[j]
	})

	if len(names) > leaderboardLimit {
		names = names[:leaderboardLimit]
	}

	entries := make([]models.LeaderboardEntry, 0, len(names))
	for i, name := range names {
		agg := byName[name]
		email := ""
		if agg.email != nil {
			email = *agg.email
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:               i + 1,
			Name:               name,
			Email:              email,
			CorrectSubmissions: agg.count,
		})
	}

	return entries
}

// NormalizeName folds case and collapses internal whitespace so name variants
// of the same solver share one key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// dedupeSolvers keeps the first occurrence per normalized name; rows must be
// ordered by submitted_at ascending so the earliest correct submission wins
// and supplies the display name.
func dedupeSolvers(rows []models.CorrectRow) []models.Solver {
	solvers := make([]models.Solver, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		key := NormalizeName(row.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		solvers = append(solvers, models.Solver{Name: row.Name, Email: row.Email})
	}

	return solvers
}
