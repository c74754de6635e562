package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns config.json. The job reads it once at start, the cmd tools edit it with Update.
type Manager struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// New loads the config file at path. A missing file is created from defaults.
func New(path string) (*Manager, error) {
	if path == "" {
		return nil, errors.New("no config path provided")
	}
	m := &Manager{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		m.cfg = m.GetDefault()
		if err := m.saveLocked(); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if m.cfg, err = m.decode(raw); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return m, nil
}

// Get returns the loaded config. The pointer is shared; change it only through Update.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cfg
}

// Update applies modify to a copy of the config, validates it and writes it
// back to disk. On any error the loaded config is left as it was.
func (m *Manager) Update(modify func(cfg *Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg == nil {
		return errors.New("no config loaded")
	}

	next, err := m.clone()
	if err != nil {
		return err
	}
	modify(next)

	if err := m.validate(next); err != nil {
		return fmt.Errorf("invalid config update: %w", err)
	}

	prev := *m.cfg
	*m.cfg = *next
	if err := m.saveLocked(); err != nil {
		*m.cfg = prev
		return err
	}
	return nil
}

// decode layers the file over the defaults. Objects merge field by field, while
// lists and the rename map given in the file replace the default outright.
func (m *Manager) decode(raw []byte) (*Config, error) {
	cfg := m.GetDefault()
	if gjson.GetBytes(raw, "output.rename").Exists() {
		cfg.Output.Rename = nil
	}

	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := m.validate(cfg); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return cfg, nil
}

func (m *Manager) clone() (*Config, error) {
	data, err := json.Marshal(m.cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copy config: %w", err)
	}
	out.Token = m.cfg.Token
	return &out, nil
}

func (m *Manager) saveLocked() error {
	data, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeAtomic(m.path, data, 0644)
}

// writeAtomic replaces path with data through a temp file in the same directory.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
