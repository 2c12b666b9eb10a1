// Package config assembles the application configuration from defaults, an
// optional YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/verbalist/podcast-studio/internal/ai"
	"github.com/verbalist/podcast-studio/podcast"
)

// defaultVoiceID is assigned to any speaker without an explicit voice
const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type TTSConfig struct {
	BaseURL         string  `yaml:"base_url"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	APIKey          string  `yaml:"-"`
}

type VoicesConfig struct {
	Narrator string `yaml:"narrator"`
	Host     string `yaml:"host"`
	Guest    string `yaml:"guest"`
}

type Config struct {
	Server    ServerConfig  `yaml:"server"`
	LogLevel  string        `yaml:"log_level"`
	Providers []ai.Provider `yaml:"providers"`
	TTS       TTSConfig     `yaml:"tts"`
	Voices    VoicesConfig  `yaml:"voices"`
	Workers   int           `yaml:"workers"`
}

// Default returns the built-in configuration: the groq, github and openai
// provider cascade with ElevenLabs speech defaults
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "0.0.0.0",
			Port: 5000,
		},
		LogLevel: "info",
		Providers: []ai.Provider{
			{
				Name:     "groq",
				Endpoint: "https://api.groq.com/openai/v1/chat/completions",
				Model:    "llama3-8b-8192",
			},
			{
				Name:     "github",
				Endpoint: "https://models.github.ai/inference/chat/completions",
				Model:    "openai/gpt-4.1",
			},
			{
				Name:     "openai",
				Endpoint: "https://api.openai.com/v1/chat/completions",
				Model:    "gpt-3.5-turbo",
			},
		},
		TTS: TTSConfig{
			BaseURL:         "https://api.elevenlabs.io/v1",
			ModelID:         "eleven_monolingual_v1",
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
		Voices: VoicesConfig{
			Narrator: defaultVoiceID,
			Host:     defaultVoiceID,
			Guest:    defaultVoiceID,
		},
		Workers: 3,
	}
}

// Load builds the configuration. A .env file in the working directory is
// read first when present, then the optional YAML file at path overlays the
// defaults, and finally environment variables override individual values.
// Credentials only ever come from the environment.
func Load(path string) (Config, error) {
	// missing .env is fine, real deployments export variables directly
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultVoices returns the configured speaker to voice mapping
func (c Config) DefaultVoices() podcast.VoiceAssignment {
	return podcast.VoiceAssignment{
		Narrator: c.Voices.Narrator,
		Host:     c.Voices.Host,
		Guest:    c.Voices.Guest,
	}
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Bind, "PODCAST_BIND")
	overrideInt(&cfg.Server.Port, "PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.TTS.BaseURL, "ELEVEN_LABS_BASE_URL")
	overrideInt(&cfg.Workers, "PODCAST_WORKERS")

	cfg.TTS.APIKey = os.Getenv("ELEVEN_LABS_API_KEY")
	for i := range cfg.Providers {
		cfg.Providers[i].APIKey = providerKey(cfg.Providers[i].Name)
	}
}

// providerKey maps a provider name to its credential variable
func providerKey(name string) string {
	switch name {
	case "groq":
		return os.Getenv("GROQ_API_KEY")
	case "github":
		return os.Getenv("GITHUB_TOKEN")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("PROVIDER_" + name + "_API_KEY")
	}
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	for _, p := range cfg.Providers {
		if p.Name == "" || p.Endpoint == "" || p.Model == "" {
			return fmt.Errorf("provider %q is missing a name, endpoint or model", p.Name)
		}
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive: %d", cfg.Workers)
	}
	return nil
}

func overrideString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
