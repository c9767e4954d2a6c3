package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Camera  CameraConfig  `mapstructure:"camera"`
	Caption CaptionConfig `mapstructure:"caption"`
	Library LibraryConfig `mapstructure:"library"`
	Log     LogConfig     `mapstructure:"log"`
}

// CameraConfig describes the still-capture backend.
type CameraConfig struct {
	// Command is the external capture command. The tokens {device},
	// {output}, {quality} and {torch} are substituted before execution.
	Command     string `mapstructure:"command"`
	BackDevice  string `mapstructure:"back_device"`
	FrontDevice string `mapstructure:"front_device"`
	Quality     int    `mapstructure:"quality"`
}

// CaptionConfig holds caption-provider settings.
type CaptionConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	APIKeyEnv   string `mapstructure:"api_key_env"`
	Model       string `mapstructure:"model"`
	MaxWidth    int    `mapstructure:"max_width"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// LibraryConfig holds the on-disk picture locations.
type LibraryConfig struct {
	PicturesDir string `mapstructure:"pictures_dir"`
	GalleryDir  string `mapstructure:"gallery_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// ResolveAPIKey returns the configured key, falling back to the named
// environment variable. An empty result means no key is configured.
func (c CaptionConfig) ResolveAPIKey() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	if c.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

// Load reads configuration from file and env. Env var overrides use prefix MEMECAM_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("camera.command", "fswebcam --no-banner --jpeg {quality} -d {device} {output}")
	v.SetDefault("camera.back_device", "/dev/video0")
	v.SetDefault("camera.front_device", "")
	v.SetDefault("camera.quality", 90)
	v.SetDefault("caption.provider", "gemini")
	v.SetDefault("caption.endpoint", "")
	v.SetDefault("caption.api_key", "")
	v.SetDefault("caption.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("caption.model", "gemini-1.5-flash")
	v.SetDefault("caption.max_width", 1024)
	v.SetDefault("caption.jpeg_quality", 80)
	v.SetDefault("library.pictures_dir", filepath.Join(home, "Pictures"))
	v.SetDefault("library.gallery_dir", filepath.Join(home, "Pictures", "memecam"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "memecam", "memecam.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MEMECAM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "memecam"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MEMECAM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
