package handlers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/models"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitLogger()
	os.Exit(m.Run())
}

// In-memory repository fakes shared by the handler tests.

type fakePuzzleRepo struct {
	puzzles map[int]models.Puzzle
	nextID  int
}

func newFakePuzzleRepo() *fakePuzzleRepo {
	return &fakePuzzleRepo{puzzles: make(map[int]models.Puzzle), nextID: 1}
}

func (f *fakePuzzleRepo) add(p models.Puzzle) models.Puzzle {
	if p.ID == 0 {
		p.ID = f.nextID
	}
	if p.ID >= f.nextID {
		f.nextID = p.ID + 1
	}
	f.puzzles[p.ID] = p
	return p
}

func (f *fakePuzzleRepo) GetPuzzles(ctx context.Context) ([]models.Puzzle, error) {
	out := make([]models.Puzzle, 0, len(f.puzzles))
	for _, p := range f.puzzles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePuzzleRepo) GetPuzzleByID(ctx context.Context, id int) (*models.Puzzle, error) {
	p, ok := f.puzzles[id]
	if !ok {
		return nil, fmt.Errorf("puzzle not found: %d", id)
	}
	return &p, nil
}

func (f *fakePuzzleRepo) GetLatestActive(ctx context.Context, now time.Time) (*models.Puzzle, error) {
	var latest *models.Puzzle
	for id := range f.puzzles {
		p := f.puzzles[id]
		if !p.IsActive || !now.Before(p.Deadline) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			cp := p
			latest = &cp
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("active puzzle not found")
	}
	return latest, nil
}

func (f *fakePuzzleRepo) CreatePuzzle(ctx context.Context, p *models.Puzzle) error {
	*p = f.add(*p)
	return nil
}

func (f *fakePuzzleRepo) UpdatePuzzle(ctx context.Context, id int, updates map[string]interface{}) error {
	p, ok := f.puzzles[id]
	if !ok {
		return fmt.Errorf("puzzle not found: %d", id)
	}
	if v, ok := updates["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := updates["description"]; ok {
		p.Description = v.(string)
	}
	if v, ok := updates["tags"]; ok {
		p.Tags = v.(models.TagList)
	}
	if v, ok := updates["difficulty"]; ok {
		p.Difficulty = v.(string)
	}
	if v, ok := updates["format"]; ok {
		p.Format = v.(string)
	}
	if v, ok := updates["deadline"]; ok {
		p.Deadline = v.(time.Time)
	}
	if v, ok := updates["solution_format"]; ok {
		if v == nil {
			p.SolutionFormat = nil
		} else {
			s := v.(string)
			p.SolutionFormat = &s
		}
	}
	if v, ok := updates["solution_text"]; ok {
		s := v.(string)
		p.SolutionText = &s
	}
	if v, ok := updates["is_active"]; ok {
		p.IsActive = v.(bool)
	}
	if v, ok := updates["slug"]; ok {
		p.Slug = v.(string)
	}
	f.puzzles[id] = p
	return nil
}

func (f *fakePuzzleRepo) DeletePuzzle(ctx context.Context, id int) error {
	if _, ok := f.puzzles[id]; !ok {
		return fmt.Errorf("puzzle not found: %d", id)
	}
	delete(f.puzzles, id)
	return nil
}

func (f *fakePuzzleRepo) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	for id, p := range f.puzzles {
		if id != excludeID && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePuzzleRepo) GetReferencedFiles(ctx context.Context) ([]string, error) {
	var files []string
	for _, p := range f.puzzles {
		if p.FilePath != nil {
			files = append(files, *p.FilePath)
		}
		if p.SolutionFilePath != nil {
			files = append(files, *p.SolutionFilePath)
		}
	}
	return files, nil
}

type fakeSubRepo struct {
	subs   map[int]models.Submission
	nextID int
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: make(map[int]models.Submission), nextID: 1}
}

func (f *fakeSubRepo) add(s models.Submission) models.Submission {
	if s.ID == 0 {
		s.ID = f.nextID
	}
	if s.ID >= f.nextID {
		f.nextID = s.ID + 1
	}
	f.subs[s.ID] = s
	return s
}

func (f *fakeSubRepo) CreateSubmission(ctx context.Context, s *models.Submission) error {
	*s = f.add(*s)
	return nil
}

func (f *fakeSubRepo) GetSubmissionByID(ctx context.Context, id int) (*models.Submission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, fmt.Errorf("submission not found: %d", id)
	}
	return &s, nil
}

func (f *fakeSubRepo) GetSubmissionsByPuzzle(ctx context.Context, puzzleID int) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.subs {
		if s.PuzzleID == puzzleID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeSubRepo) GetAllSubmissions(ctx context.Context) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeSubRepo) UpdateSubmissionStatus(ctx context.Context, id int, status string) error {
	s, ok := f.subs[id]
	if !ok {
		return fmt.Errorf("submission not found: %d", id)
	}
	s.Status = status
	f.subs[id] = s
	return nil
}

func (f *fakeSubRepo) DeleteSubmission(ctx context.Context, id int) error {
	if _, ok := f.subs[id]; !ok {
		return fmt.Errorf("submission not found: %d", id)
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeSubRepo) DeleteSubmissionsByPuzzle(ctx context.Context, puzzleID int) error {
	for id, s := range f.subs {
		if s.PuzzleID == puzzleID {
			delete(f.subs, id)
		}
	}
	return nil
}

func (f *fakeSubRepo) correct(puzzleID int, all bool) []models.CorrectRow {
	var rows []models.CorrectRow
	for _, s := range f.subs {
		if s.Status != models.SubmissionCorrect {
			continue
		}
		if !all && s.PuzzleID != puzzleID {
			continue
		}
		rows = append(rows, models.CorrectRow{
			Name:        s.Name,
			Email:       s.Email,
			PuzzleID:    s.PuzzleID,
			SubmittedAt: s.SubmittedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubmittedAt.Before(rows[j].SubmittedAt) })
	return rows
}

func (f *fakeSubRepo) GetCorrectRows(ctx context.Context) ([]models.CorrectRow, error) {
	return f.correct(0, true), nil
}

func (f *fakeSubRepo) GetCorrectRowsByPuzzle(ctx context.Context, puzzleID int) ([]models.CorrectRow, error) {
	return f.correct(puzzleID, false), nil
}

type fakeSessionRepo struct {
	sessions map[string]models.AdminSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]models.AdminSession)}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, s *models.AdminSession) error {
	f.sessions[s.SessionID] = *s
	return nil
}

func (f *fakeSessionRepo) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	_, ok := f.sessions[sessionID]
	return ok, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}
