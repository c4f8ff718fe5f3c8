// Package config loads the optional TOML configuration file and
// applies defaults and validation. Flags override file values, file
// values override defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// WorkDir holds per-run scratch state: downloads, transcripts,
	// intermediate artifacts.
	WorkDir string `toml:"work_dir"`
	// OutDir receives finished run directories.
	OutDir string `toml:"out_dir"`

	// Smoothing is the face tracker inertia in [0,1].
	Smoothing float64 `toml:"smoothing"`

	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	YtdlpPath   string `toml:"ytdlp_path"`

	// CascadePath points at the pigo facefinder cascade file.
	CascadePath string `toml:"cascade_path"`

	// MaxHeight caps download resolution; zero downloads the best.
	MaxHeight int `toml:"max_height"`

	OpenAIModel   string `toml:"openai_model"`
	OpenAIBaseURL string `toml:"openai_base_url"`
}

func Default() Config {
	return Config{
		WorkDir:     ".vertcut",
		OutDir:      "out",
		Smoothing:   0.8,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		YtdlpPath:   "yt-dlp",
		CascadePath: "facefinder",
	}
}

// Load reads path over the defaults. A missing file is not an error
// when path is empty (no explicit --config); an explicitly named file
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("vertcut.toml"); err != nil {
			return cfg, nil
		}
		path = "vertcut.toml"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.WorkDir == "" {
		return errors.New("work_dir is empty")
	}
	if c.OutDir == "" {
		return errors.New("out_dir is empty")
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in [0,1], got %v", c.Smoothing)
	}
	if c.MaxHeight < 0 {
		return fmt.Errorf("max_height must be >= 0, got %d", c.MaxHeight)
	}
	return nil
}
