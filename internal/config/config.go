// Package config loads doorstencil settings from a YAML file, DOORSTENCIL_*
// environment variables and bound command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up when no explicit path is given.
const FileName = "doorstencil.yaml"

// EnvPrefix prefixes environment overrides, e.g. DOORSTENCIL_SERVER_PORT.
const EnvPrefix = "DOORSTENCIL"

// Config is the resolved settings tree.
type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`
		BaseURL    string `mapstructure:"base_url"`
		SceneCache int    `mapstructure:"scene_cache"`
	} `mapstructure:"server"`

	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`

	Texture struct {
		Width  int `mapstructure:"width"`
		Height int `mapstructure:"height"`
	} `mapstructure:"texture"`

	Preview struct {
		Width      int    `mapstructure:"width"`
		Height     int    `mapstructure:"height"`
		Background string `mapstructure:"background"`
		DebounceMS int    `mapstructure:"debounce_ms"`
	} `mapstructure:"preview"`

	Output struct {
		JPEGQuality int    `mapstructure:"jpeg_quality"`
		Caption     bool   `mapstructure:"caption"`
		CaptionFont string `mapstructure:"caption_font"`
	} `mapstructure:"output"`

	Assets struct {
		Registry           string `mapstructure:"registry"`
		FallbackProcedural bool   `mapstructure:"fallback_procedural"`
	} `mapstructure:"assets"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.scene_cache", 16)
	v.SetDefault("store.path", "data/doorstencil.db")
	v.SetDefault("texture.width", 600)
	v.SetDefault("texture.height", 1200)
	v.SetDefault("preview.width", 960)
	v.SetDefault("preview.height", 540)
	v.SetDefault("preview.background", "#000000")
	v.SetDefault("preview.debounce_ms", 120)
	v.SetDefault("output.jpeg_quality", 92)
	v.SetDefault("output.caption", false)
	v.SetDefault("output.caption_font", "")
	v.SetDefault("assets.registry", "")
	v.SetDefault("assets.fallback_procedural", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads path (or FileName from the working directory when path is
// empty) into v and decodes the result. A missing default file is not an
// error; a missing explicit file is.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.SceneCache < 1 {
		errs = append(errs, fmt.Errorf("server.scene_cache %d must be at least 1", c.Server.SceneCache))
	}
	if c.Texture.Width <= 0 || c.Texture.Height <= 0 {
		errs = append(errs, fmt.Errorf("texture size %dx%d must be positive", c.Texture.Width, c.Texture.Height))
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		errs = append(errs, fmt.Errorf("preview size %dx%d must be positive", c.Preview.Width, c.Preview.Height))
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("output.jpeg_quality %d must be within [1,100]", c.Output.JPEGQuality))
	}
	if c.Preview.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("preview.debounce_ms %d must not be negative", c.Preview.DebounceMS))
	}
	return errors.Join(errs...)
}

// Sample is a commented starter config written by `doorstencil init`.
const Sample = `# doorstencil settings. Environment variables override these,
# e.g. DOORSTENCIL_SERVER_PORT=9090.
server:
  port: 8080
  base_url: ""          # public URL used in share QR codes
  scene_cache: 16       # decoded capture photos kept in memory
store:
  path: data/doorstencil.db
texture:
  width: 600
  height: 1200
preview:
  width: 960
  height: 540
  background: "#000000"
  debounce_ms: 120
output:
  jpeg_quality: 92
  caption: false
  caption_font: ""      # TTF/OTF with Hangul to print catalog labels
assets:
  registry: ""          # YAML mapping designs to pre-rendered images
  fallback_procedural: true
logging:
  level: info
  format: text
`
