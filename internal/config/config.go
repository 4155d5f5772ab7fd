package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server"`
	Slack     Slack     `mapstructure:"slack"`
	Storage   Storage   `mapstructure:"storage"`
	Generator Generator `mapstructure:"generator"`
	Catalog   Catalog   `mapstructure:"catalog"`
	Processor Processor `mapstructure:"processor"`
	Workdir   Workdir   `mapstructure:"workdir"`
	Dispatch  Dispatch  `mapstructure:"dispatch"`
	Retry     Retry     `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // HTTP port to listen on
}

// Slack holds chat platform credentials and channel routing.
type Slack struct {
	BotToken string `mapstructure:"bot_token"`
	// Channels lists the allowed channels and the storage folder each
	// channel's generated images are persisted under. Channels absent
	// from this list are rejected outright. A list of pairs rather than
	// a map: viper lowercases map keys, and channel IDs are
	// case-sensitive.
	Channels []ChannelFolder `mapstructure:"channels"`
}

// ChannelFolder routes one allowed channel to its destination folder.
type ChannelFolder struct {
	Channel string `mapstructure:"channel"`
	Folder  string `mapstructure:"folder"`
}

// ChannelFolders returns the channel routing as a lookup map.
func (s Slack) ChannelFolders() map[string]string {
	m := make(map[string]string, len(s.Channels))
	for _, cf := range s.Channels {
		m[cf.Channel] = cf.Folder
	}
	return m
}

// Storage holds configuration for the file storage backend.
type Storage struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	BucketName   string `mapstructure:"bucket_name"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	ModelsFolder string `mapstructure:"models_folder"` // prefix holding reference model images
}

// Generator holds configuration for the image generation backend.
type Generator struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Catalog defines the recognized model attribute values.
type Catalog struct {
	Categories    []string `mapstructure:"categories"`
	Subcategories []string `mapstructure:"subcategories"`
}

// Processor holds post-processing parameters for generated images.
type Processor struct {
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	MarkText string `mapstructure:"mark_text"` // optional branding mark; empty disables
	FontPath string `mapstructure:"font_path"`
}

// Workdir holds the root of the local staging directories.
type Workdir struct {
	Root string `mapstructure:"root"`
}

// Dispatch holds worker pool sizing.
type Dispatch struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// Retry defines retry policy configuration for storage transport calls.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// mustBindEnv binds critical environment variables to Viper keys.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv() {
	bindings := map[string]string{
		"slack.bot_token":    "SLACK_BOT_TOKEN",
		"generator.api_key":  "OPENAI_API_KEY",
		"storage.access_key": "STORAGE_ACCESS_KEY",
		"storage.secret_key": "STORAGE_SECRET_KEY",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// MustLoad loads the configuration from the specified directory.
// It panics if the configuration file cannot be loaded or unmarshaled.
func MustLoad(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to read config")
	}

	mustBindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msgf("failed to unmarshal config: %v", err)
	}

	return &cfg
}
