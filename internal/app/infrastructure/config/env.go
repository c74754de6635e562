package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"strings"
)

const TokenEnv = "VIMEO_TOKEN"

// LoadToken reads the API token from the process environment, after loading
// envFile if it exists. Variables already set in the environment win.
func (m *Manager) LoadToken(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	token := strings.TrimSpace(os.Getenv(TokenEnv))
	if token == "" {
		return &ConfigError{Field: TokenEnv, Reason: "is required", Err: ErrMissingToken}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg.Token = token
	return nil
}
