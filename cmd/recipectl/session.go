package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is what login leaves on disk for later commands.
type Session struct {
	Server string `yaml:"server"`
	Email  string `yaml:"email,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recipectl.yaml"
	}
	return filepath.Join(home, ".recipectl.yaml")
}

// loadSession reads path. A missing file is an empty session.
func loadSession(path string) (Session, error) {
	var s Session
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, nil
}

func saveSession(path string, s Session) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
