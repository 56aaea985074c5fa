// Package settings persists the user's dashboard settings as a YAML file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"weather-dashboard/models"
)

// Store holds the current settings and writes every accepted update to disk.
// An empty path keeps settings in memory only.
type Store struct {
	path   string
	logger *zap.Logger

	mu          sync.RWMutex
	current     models.Settings
	subscribers []chan models.Settings
}

// Open loads settings from path, falling back to defaults when the file does not exist
func Open(path string, defaults models.Settings, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger.Named("settings"), current: defaults}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.logger.Info("no settings file, using defaults", zap.String("path", path))
		case err != nil:
			return nil, fmt.Errorf("failed to read settings: %w", err)
		default:
			loaded := defaults
			if err := yaml.Unmarshal(data, &loaded); err != nil {
				return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
			}
			s.current = loaded
		}
	}

	if err := s.current.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the current settings
func (s *Store) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates next, persists it and notifies subscribers.
// Validation errors wrap models.ErrInvalidSettings and leave the store unchanged.
func (s *Store) Update(next models.Settings) (models.Settings, error) {
	if err := next.Validate(); err != nil {
		return models.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(next); err != nil {
		return models.Settings{}, err
	}
	changed := next != s.current
	s.current = next
	s.logger.Info("settings updated",
		zap.String("location", next.Location),
		zap.String("units", string(next.Units)),
		zap.String("timezone", next.TimeZone))

	if changed {
		for _, ch := range s.subscribers {
			notify(ch, next)
		}
	}
	return next, nil
}

// Changes returns a channel receiving the settings after every change.
// Only the latest value is kept if the receiver falls behind.
func (s *Store) Changes() <-chan models.Settings {
	ch := make(chan models.Settings, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func notify(ch chan models.Settings, v models.Settings) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		// drop the stale pending value
		select {
		case <-ch:
		default:
		}
	}
}

// write saves settings through a temporary file renamed over the original
func (s *Store) write(v models.Settings) error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("error replacing settings file: %w", err)
	}
	return nil
}
