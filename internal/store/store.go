// Package store persists tasks as a JSON array of records. Saves are
// wholesale: the caller hands back every task it loaded, including ones it
// never showed the user, so nothing is silently dropped.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jhaenchen/procrastitask/internal/dynamic"
	"github.com/jhaenchen/procrastitask/internal/model"
)

// ErrCorrupt wraps a load failure caused by unreadable JSON. The store
// still returns an empty task list so the session can proceed; callers
// decide whether to overwrite or bail.
var ErrCorrupt = errors.New("task store is corrupt")

const storeFileName = "tasks.json"

// Store is the persistence surface the app works against.
type Store interface {
	Load() ([]*model.Task, error)
	Save(tasks []*model.Task) error
}

// FileStore keeps the whole task list in one JSON file under a data
// directory. Writes go through a temp file and rename so a crash mid-save
// never truncates the store.
type FileStore struct {
	mu   sync.Mutex
	path string
	reg  *dynamic.Registry
	log  *zap.Logger
}

func NewFileStore(dataDir string, reg *dynamic.Registry, log *zap.Logger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{
		path: filepath.Join(dataDir, storeFileName),
		reg:  reg,
		log:  log,
	}, nil
}

// Path is the location of the underlying JSON file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() ([]*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Task{}, nil
		}
		return nil, err
	}

	var recs []model.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		s.log.Error("task store unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		return []*model.Task{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	tasks := make([]*model.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := model.FromRecord(rec, s.reg)
		if err != nil {
			s.log.Error("task record unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
			return []*model.Task{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *FileStore) Save(tasks []*model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]model.Record, 0, len(tasks))
	for _, t := range tasks {
		recs = append(recs, t.ToRecord())
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.log.Debug("task store saved", zap.String("path", s.path), zap.Int("tasks", len(tasks)))
	return nil
}

// Backup copies the store file into destDir under a timestamped name and
// returns the backup path.
func (s *FileStore) Backup(destDir string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("tasks-%s.json", now.Format("20060102-150405"))
	dest := filepath.Join(destDir, name)
	if err := os.WriteFile(dest, b, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// Restore replaces the store file with the backup at srcPath. The backup
// must parse as a record array; a corrupt backup leaves the store untouched.
func (s *FileStore) Restore(srcPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	var recs []model.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return fmt.Errorf("backup %s is not a task store: %w", srcPath, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore holds tasks in memory. Used by tests and as a scratch
// session backend.
type MemoryStore struct {
	mu    sync.Mutex
	tasks []*model.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *MemoryStore) Save(tasks []*model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make([]*model.Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}
