// Package config provides configuration loading and validation for the recommender.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRegion is the watch-provider region used when none is configured.
const DefaultRegion = "US"

// DefaultMirrorBase is the read-only rendering proxy prefixed to a listing URL
// when the direct fetch fails or returns an implausible body.
const DefaultMirrorBase = "https://r.jina.ai/"

// Config holds all process-wide settings and credentials. It is built once at
// startup and read-only afterwards; every collaborator receives it explicitly.
type Config struct {
	// Credentials
	TMDBKey           string `json:"tmdb_key,omitempty"`            // TMDb API key
	GeminiKey         string `json:"gemini_key,omitempty"`          // Gemini API key for embeddings
	TraktClientID     string `json:"trakt_client_id,omitempty"`     // Optional: Trakt proxy endpoints
	TraktClientSecret string `json:"trakt_client_secret,omitempty"` // Optional: Trakt PIN exchange

	// Behavior
	Region     string `json:"region,omitempty"`      // Watch-provider region code
	MirrorBase string `json:"mirror_base,omitempty"` // Rendering-proxy URL prefix
	UseBrowser bool   `json:"use_browser,omitempty"` // Headless browser as last fetch tier
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed diagnostics
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		TMDBKey:           os.Getenv("TMDB_API_KEY"),
		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		TraktClientID:     os.Getenv("TRAKT_CLIENT_ID"),
		TraktClientSecret: os.Getenv("TRAKT_CLIENT_SECRET"),
		Region:            os.Getenv("WATCH_REGION"),
		MirrorBase:        os.Getenv("MIRROR_BASE"),
	}
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then applies the built-in defaults for region and mirror base.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.TMDBKey == "" {
		result.TMDBKey = defaults.TMDBKey
	}
	if result.GeminiKey == "" {
		result.GeminiKey = defaults.GeminiKey
	}
	if result.TraktClientID == "" {
		result.TraktClientID = defaults.TraktClientID
	}
	if result.TraktClientSecret == "" {
		result.TraktClientSecret = defaults.TraktClientSecret
	}
	if result.Region == "" {
		result.Region = defaults.Region
	}
	if result.MirrorBase == "" {
		result.MirrorBase = defaults.MirrorBase
	}

	// Bool fields are not merged: flags always win and false is the zero value.

	if result.Region == "" {
		result.Region = DefaultRegion
	}
	if result.MirrorBase == "" {
		result.MirrorBase = DefaultMirrorBase
	}

	return result
}

// Validate checks that the required credentials are present.
// Trakt credentials are optional; the Trakt endpoints report their own absence.
func (c Config) Validate() error {
	if c.TMDBKey == "" {
		return fmt.Errorf("config error: TMDB_API_KEY is required")
	}
	if c.GeminiKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	return nil
}
