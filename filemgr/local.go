package filemgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes avatars under Dir; they are served back at URLPrefix by
// the static route.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: "/uploads/"}
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("move avatar: %w", err)
	}
	return s.URLPrefix + filepath.Base(name), nil
}
