package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/language"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	Language     string   `json:"language,omitempty"`
	DefaultStop  string   `json:"default_stop,omitempty"`
	SavedCourses []string `json:"saved_courses,omitempty"`
	Palette      string   `json:"palette,omitempty"`
	AccentColor  string   `json:"accent_color,omitempty"`
	TopologyFile string   `json:"topology_file,omitempty"`
	SemesterFile string   `json:"semester_file,omitempty"`
}

// getConfigPath returns the absolute path to ~/.courseweb.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".courseweb.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LanguageTag is the display language, English unless set otherwise.
func (c *AppConfig) LanguageTag() language.Tag {
	if c.Language == "" {
		return language.English
	}
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// IsChinese reports whether tag is any Chinese variant, which selects the
// Chinese names and labels throughout the app.
func IsChinese(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "zh"
}

// AddCourse appends id to the saved selection. It reports false when the
// course was already saved.
func (c *AppConfig) AddCourse(id string) bool {
	if slices.Contains(c.SavedCourses, id) {
		return false
	}
	c.SavedCourses = append(c.SavedCourses, id)
	return true
}

// RemoveCourse drops id from the saved selection, reporting whether it was there.
func (c *AppConfig) RemoveCourse(id string) bool {
	i := slices.Index(c.SavedCourses, id)
	if i < 0 {
		return false
	}
	c.SavedCourses = slices.Delete(c.SavedCourses, i, i+1)
	return true
}
