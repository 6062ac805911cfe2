package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Store is the part of the memory repository a Snapshotter needs
type Store interface {
	Export() map[string][]domain.Issue
	Import(map[string][]domain.Issue)
}

type file struct {
	SavedAt  time.Time                 `json:"saved_at"`
	Projects map[string][]domain.Issue `json:"projects"`
}

// Snapshotter periodically writes a Store to a JSON file
type Snapshotter struct {
	store    Store
	path     string
	schedule string
	log      *zap.Logger

	mu   sync.Mutex // serialises writes
	cron *cron.Cron
}

func New(store Store, path, schedule string, log *zap.Logger) *Snapshotter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Snapshotter{
		store:    store,
		path:     path,
		schedule: schedule,
		log:      log,
	}
}

// Load restores the store from the snapshot file. A missing file leaves the
// store untouched.
func (s *Snapshotter) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no snapshot found, starting empty", zap.String("path", s.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if f.Projects == nil {
		f.Projects = map[string][]domain.Issue{}
	}

	s.store.Import(f.Projects)
	s.log.Info("snapshot loaded",
		zap.String("path", s.path),
		zap.Int("projects", len(f.Projects)),
		zap.Time("saved_at", f.SavedAt),
	)
	return nil
}

// Save writes the current store contents. The file is replaced atomically.
func (s *Snapshotter) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(file{
		SavedAt:  time.Now().UTC(),
		Projects: s.store.Export(),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Start schedules Save on the configured cron schedule (seconds field included)
func (s *Snapshotter) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.schedule, func() {
		if err := s.Save(); err != nil {
			s.log.Error("snapshot failed", zap.String("path", s.path), zap.Error(err))
			return
		}
		s.log.Debug("snapshot written", zap.String("path", s.path))
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.log.Info("snapshot scheduler started", zap.String("schedule", s.schedule), zap.String("path", s.path))
	return nil
}

// Stop waits for a running job, then writes a final snapshot
func (s *Snapshotter) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return s.Save()
}
