package store

import (
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultPath   = "~/.goals.db"
	DefaultScheme = "goals"
)

type Config interface {
	BasePath() string
	// OrphanPolicy is "keep" or "purge".
	OrphanPolicy() string
	// Scheme is the URL scheme used for cross-navigation links.
	Scheme() string
}

// LoadConfig reads .goals.yaml from GOALS_CONFIG_PATH or the working
// directory, with GOALS_* environment variables taking precedence.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("orphans", "keep")
	v.SetDefault("scheme", DefaultScheme)
	v.SetConfigName(".goals") // .yaml is implicit
	v.SetEnvPrefix("GOALS")
	v.AutomaticEnv()

	if override := os.Getenv("GOALS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:    path,
		Orphans: v.GetString("orphans"),
		Links:   v.GetString("scheme"),
	}, nil
}

type fileConfig struct {
	Path    string `json:"path"`
	Orphans string `json:"orphans"`
	Links   string `json:"scheme"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) OrphanPolicy() string {
	return f.Orphans
}

func (f *fileConfig) Scheme() string {
	return f.Links
}
