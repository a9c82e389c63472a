package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainerr "astroblog/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
	Log     LogConfig     `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	// ThemeDir overrides the embedded templates when set.
	ThemeDir string `yaml:"theme_dir"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// SourceConfig lists the candidate files for one collection, tried in order
// relative to ContentConfig.BaseDir. Field names the array inside an object
// document; a bare array document is always accepted.
type SourceConfig struct {
	Files []string `yaml:"files"`
	Field string   `yaml:"field"`
}

type ContentConfig struct {
	BaseDir string       `yaml:"base_dir"`
	Posts   SourceConfig `yaml:"posts"`
	Charts  SourceConfig `yaml:"charts"`

	// StaticFallback also searches <server.static_dir>/data for the same file names.
	StaticFallback bool `yaml:"static_fallback"`
	// TagIndex seeds the listing tag filter.
	TagIndex bool `yaml:"tag_index"`
	// SanitizeBody runs post bodies through an allow-list policy instead of
	// passing them through verbatim.
	SanitizeBody bool `yaml:"sanitize_body"`
}

type BuildConfig struct {
	PublicDir    string `yaml:"public_dir"`
	ManifestPath string `yaml:"manifest_path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Astroblog",
			Subtitle: "Jyotish, tránsitos y cartas natales",
			Language: "es",
		},
		Server: ServerConfig{
			Addr:      ":3000",
			StaticDir: "public",
		},
		Content: ContentConfig{
			BaseDir: ".",
			Posts: SourceConfig{
				Files: []string{"data/posts.json", "posts.json", "public/data/posts.json"},
				Field: "posts",
			},
			Charts: SourceConfig{
				Files: []string{"data/charts.json", "charts.json", "public/data/charts.json"},
				Field: "charts",
			},
			StaticFallback: true,
			TagIndex:       true,
		},
		Build: BuildConfig{
			PublicDir:    "dist",
			ManifestPath: ".astroblog/manifest.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		ve.Add("server.addr", "must not be empty")
	}
	if strings.TrimSpace(c.Server.StaticDir) == "" {
		ve.Add("server.static_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Content.BaseDir) == "" {
		ve.Add("content.base_dir", "must not be empty")
	}
	if len(c.Content.Posts.Files) == 0 {
		ve.Add("content.posts.files", "must list at least one file")
	}
	if len(c.Content.Charts.Files) == 0 {
		ve.Add("content.charts.files", "must list at least one file")
	}
	for _, f := range append(append([]string{}, c.Content.Posts.Files...), c.Content.Charts.Files...) {
		if strings.TrimSpace(f) == "" {
			ve.Add("content.files", "must not contain empty paths")
			break
		}
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ManifestPath) == "" {
		ve.Add("build.manifest_path", "must not be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// file values override defaults, everything else keeps Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
		data = nil
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnvFiles loads .env.local then .env; variables already set win.
// Missing files are ignored.
func LoadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if dir := strings.TrimSpace(os.Getenv("ASTRO_CONTENT_DIR")); dir != "" {
		c.Content.BaseDir = dir
	}
	if dir := strings.TrimSpace(os.Getenv("ASTRO_STATIC_DIR")); dir != "" {
		c.Server.StaticDir = dir
	}
	if lvl := strings.TrimSpace(os.Getenv("ASTRO_LOG_LEVEL")); lvl != "" {
		c.Log.Level = lvl
	}
}
