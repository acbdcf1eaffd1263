package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rfcorreia/go-identity-service/internal/types"
)

var _ UserStore = (*FileStore)(nil)

// FileStore keeps the record set in memory and mirrors it to a JSON
// file, rewritten in full on every mutation. Mutations are serialized
// with a mutex; cross-process coordination is out of scope.
type FileStore struct {
	logger *slog.Logger
	path   string

	mu    sync.Mutex
	users []types.User
}

// NewFileStore loads the record set from path. A missing file yields an
// empty store; an unreadable one is logged and treated as empty.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		logger: logger,
		path:   path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrStorage, path, err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		logger.Error("User file is corrupt, starting with an empty record set",
			slog.String("path", path),
			slog.Any("error", err),
		)
		s.users = nil
	}
	return s, nil
}

// save rewrites the whole file. Persistence failures are logged and
// otherwise ignored; the in-memory record set stays authoritative for
// the lifetime of the process.
func (s *FileStore) save() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("Failed to create data directory", slog.String("path", s.path), slog.Any("error", err))
		return
	}

	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal user records", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Error("Failed to write user file", slog.String("path", s.path), slog.Any("error", err))
	}
}

func (s *FileStore) nextID() int64 {
	var maxID int64
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}

func (s *FileStore) Create(ctx context.Context, user types.User) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateEmail, user.Email)
		}
	}

	user.ID = s.nextID()
	s.users = append(s.users, user)
	s.save()
	return &user, nil
}

func (s *FileStore) GetByID(ctx context.Context, id int64) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: user %d", types.ErrNotFound, id)
}

func (s *FileStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: email not registered", types.ErrNotFound)
}

func (s *FileStore) List(ctx context.Context) ([]types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.User, len(s.users))
	copy(out, s.users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].IsActive = false
			s.save()
			return nil
		}
	}
	return fmt.Errorf("%w: user %d", types.ErrNotFound, id)
}

func (s *FileStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}
