package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Backend holds the credentials for the portal database.
type Backend struct {
	URL         string
	APIKey      string
	DatabaseURL string
}

// Configured reports whether any backend is reachable.
func (b Backend) Configured() bool {
	return b.URL != "" || b.DatabaseURL != ""
}

// LoadBackend reads backend credentials from the environment, after loading
// .env from the working directory and ~/.courseweb.env when they exist.
// Variables already set in the environment win over both files.
func LoadBackend() (Backend, error) {
	paths := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".courseweb.env"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return Backend{}, fmt.Errorf("failed to load %s: %w", p, err)
			}
		} else if !os.IsNotExist(err) {
			return Backend{}, fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}

	return Backend{
		URL:         os.Getenv("COURSEWEB_BACKEND_URL"),
		APIKey:      os.Getenv("COURSEWEB_API_KEY"),
		DatabaseURL: os.Getenv("COURSEWEB_DATABASE_URL"),
	}, nil
}
