package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// cacheDuration determines how long backend rows are kept before refreshing
const cacheDuration = 12 * time.Hour

// CacheEntry represents the disk data format
type CacheEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Rows      json.RawMessage `json:"rows"`
}

var unsafeKeyChars = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_", "..", "_")

func getCachePath(key string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}

	cacheDir := filepath.Join(homeDir, ".courseweb_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("could not create cache directory: %w", err)
	}

	return filepath.Join(cacheDir, unsafeKeyChars.Replace(key)+".json"), nil
}

// readCache decodes an unexpired entry for key into v.
func readCache(key string, v any) bool {
	path, err := getCachePath(key)
	if err != nil {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false
	}

	if time.Since(entry.Timestamp) > cacheDuration {
		return false
	}

	return json.Unmarshal(entry.Rows, v) == nil
}

// writeCache saves v to disk under key. Failures only cost a refetch.
func writeCache(key string, v any) {
	path, err := getCachePath(key)
	if err != nil {
		return
	}

	rows, err := json.Marshal(v)
	if err != nil {
		return
	}

	data, err := json.MarshalIndent(CacheEntry{Timestamp: time.Now(), Rows: rows}, "", "  ")
	if err != nil {
		return
	}

	_ = os.WriteFile(path, data, 0644)
}

// ClearCache removes every cached backend row.
func ClearCache() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not find user home directory: %w", err)
	}
	return os.RemoveAll(filepath.Join(homeDir, ".courseweb_cache"))
}
