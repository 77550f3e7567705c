package groups

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mj1618/nirctl/internal/model"
)

const defaultFilePerm = 0o644

// ErrGroupNotFound is returned by lookups on an unknown group name.
var ErrGroupNotFound = errors.New("group not found")

// Store holds app groups in memory and mirrors them to a file. Mutations
// report success as a bool and save the file afterwards; save failures are
// logged and otherwise ignored.
type Store struct {
	mu     sync.Mutex
	path   string
	groups []model.AppGroup
	log    *slog.Logger
}

// NewStore returns an empty store backed by path. An empty path keeps the
// store in memory only.
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load replaces the in-memory groups with the file contents. A missing file
// loads as empty.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.groups = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}
	groups, skipped, err := Parse(bytes.NewReader(b))
	if err != nil {
		return err
	}
	for _, pe := range skipped {
		s.log.Warn("skipping malformed app group line", "file", s.path, "line", pe.Line, "err", pe.Err)
	}
	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()
	return nil
}

// Save writes all groups to the backing file via a temp file and rename.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	var buf bytes.Buffer
	err := Write(&buf, s.groups)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), defaultFilePerm); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) autosave() {
	if err := s.Save(); err != nil {
		s.log.Warn("saving app groups failed", "file", s.path, "err", err)
	}
}

// Groups returns a deep copy of all groups in order.
func (s *Store) Groups() []model.AppGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AppGroup, len(s.groups))
	for i, g := range s.groups {
		out[i] = copyGroup(g)
	}
	return out
}

// Group returns a copy of the named group.
func (s *Store) Group(name string) (model.AppGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(name); i >= 0 {
		return copyGroup(s.groups[i]), true
	}
	return model.AppGroup{}, false
}

// CreateGroup adds an empty group. It returns false if the name is taken
// or fails ValidateGroupName.
func (s *Store) CreateGroup(name string) bool {
	if ValidateGroupName(name) != nil {
		return false
	}
	s.mu.Lock()
	if s.indexOf(name) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.groups = append(s.groups, model.AppGroup{Name: name})
	s.mu.Unlock()
	s.autosave()
	return true
}

// DeleteGroup removes the named group.
func (s *Store) DeleteGroup(name string) bool {
	s.mu.Lock()
	i := s.indexOf(name)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.groups = append(s.groups[:i], s.groups[i+1:]...)
	s.mu.Unlock()
	s.autosave()
	return true
}

// AddApp appends an entry to group. Display names are not deduplicated.
// It returns false for an unknown group or an entry that fails
// ValidateEntry.
func (s *Store) AddApp(group string, entry model.AppEntry) bool {
	if ValidateEntry(entry) != nil {
		return false
	}
	s.mu.Lock()
	i := s.indexOf(group)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if entry.Target.Kind != model.KindFolder {
		entry.Target.Recursive = false
	}
	s.groups[i].Apps = append(s.groups[i].Apps, entry)
	s.mu.Unlock()
	s.autosave()
	return true
}

// RemoveApp removes the first entry named name from group.
func (s *Store) RemoveApp(group, name string) bool {
	s.mu.Lock()
	i := s.indexOf(group)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	apps := s.groups[i].Apps
	for j := range apps {
		if apps[j].Name == name {
			s.groups[i].Apps = append(apps[:j], apps[j+1:]...)
			s.mu.Unlock()
			s.autosave()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) indexOf(name string) int {
	for i := range s.groups {
		if s.groups[i].Name == name {
			return i
		}
	}
	return -1
}

func copyGroup(g model.AppGroup) model.AppGroup {
	apps := make([]model.AppEntry, len(g.Apps))
	copy(apps, g.Apps)
	return model.AppGroup{Name: g.Name, Apps: apps}
}
