package sweeper

import (
	"context"
	"time"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/repositories"
	"puzzleboard/internal/services"

	"go.uber.org/zap"
)

// gracePeriod keeps fresh uploads alive while the puzzle record referencing
// them is still being created.
const gracePeriod = 24 * time.Hour

// Sweeper periodically deletes uploaded files no puzzle references anymore.
// A delete racing an upload may orphan a file; the sweep reclaims it later.
type Sweeper struct {
	quit       chan bool
	interval   time.Duration
	store      *services.FileStore
	puzzleRepo repositories.PuzzleRepository
}

func New(interval time.Duration, store *services.FileStore,
	puzzleRepo repositories.PuzzleRepository) *Sweeper {
	return &Sweeper{
		quit:       make(chan bool),
		interval:   interval,
		store:      store,
		puzzleRepo: puzzleRepo,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.quit:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SweepOnce(ctx); err != nil {
					logger.Log.Error("Orphan file sweep failed", zap.Error(err))
				}
			}
		}
	}()

	logger.Log.Info("Orphan file sweeper started",
		zap.Duration("interval", s.interval))
}

func (s *Sweeper) Stop() {
	logger.Log.Info("Stopping orphan file sweeper")
	close(s.quit)
}

// SweepOnce deletes every stored file that is unreferenced and older than the
// grace period.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	files, err := s.store.ListFiles()
	if err != nil {
		return err
	}

	referenced, err := s.puzzleRepo.GetReferencedFiles(ctx)
	if err != nil {
		return err
	}

	refSet := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		refSet[name] = true
	}

	now := time.Now()
	removed := 0
	for _, file := range files {
		if refSet[file.Name] || now.Sub(file.ModTime) < gracePeriod {
			continue
		}
		if err := s.store.Delete(file.Name); err != nil {
			logger.Log.Warn("Failed to delete orphaned file",
				zap.String("file", file.Name),
				zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Log.Info("Reclaimed orphaned upload files",
			zap.Int("removed", removed))
	}

	return nil
}
