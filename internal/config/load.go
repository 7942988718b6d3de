package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/medqa-backend/internal/platform/envutil"
)

const (
	EngineMock      = "mock"
	EngineOAIHTTP   = "oai_http"
	EngineGCPSpeech = "gcp_speech"

	DefaultBaseURL            = "https://api.openai.com"
	DefaultCompletionModel    = "gpt-4"
	DefaultTranscriptionModel = "whisper-1"
	DefaultMaxTokens          = 5000
	DefaultTemperature        = 0.2

	MaxTokensLimit     = 16384
	MaxTemperature     = 0.2
	DefaultSampleRate  = 16000
	defaultMaxInflight = 4
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   25 << 20,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Completion: CompletionConfig{
			Model:       DefaultCompletionModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Engine:      EngineConfig{Type: EngineOAIHTTP, BaseURL: DefaultBaseURL},
		},
		Transcription: TranscriptionConfig{
			Model: DefaultTranscriptionModel,
		},
		Audio: AudioConfig{
			FFmpegPath:      "ffmpeg",
			FrameSampleRate: DefaultSampleRate,
			ConvertTimeout:  Duration{Duration: 2 * time.Minute},
			MaxUploadBytes:  25 << 20,
		},
		QA: QAConfig{MaxInflight: defaultMaxInflight},
	}
}

// Load resolves configuration in order: defaults, config file, .env, environment.
// An empty path falls back to MEDQA_CONFIG_PATH and then ./config/config.{json,yaml,yml}.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(path)
	if cfgPath == "" {
		cfgPath = strings.TrimSpace(os.Getenv("MEDQA_CONFIG_PATH"))
	}
	if cfgPath == "" {
		cfgPath = discoverConfigFile()
	}
	if cfgPath != "" {
		if err := decodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	p := strings.TrimSpace(os.Getenv("MEDQA_DOTENV_PATH"))
	if p == "" {
		p = ".env"
	}
	if err := godotenv.Load(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", p, err)
	}
	return nil
}

func discoverConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(wd, "config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// decodeFile decodes onto cfg so keys absent from the file keep their defaults.
func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("MEDQA_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.CORSOrigins = envutil.List("MEDQA_CORS_ORIGINS", cfg.HTTP.CORSOrigins)

	if key := envutil.String("OPENAI_API_KEY", ""); key != "" {
		if cfg.Completion.Engine.APIKey == "" {
			cfg.Completion.Engine.APIKey = key
		}
		if cfg.Transcription.Engine.APIKey == "" {
			cfg.Transcription.Engine.APIKey = key
		}
	}
	cfg.Completion.Engine.BaseURL = envutil.String("OPENAI_BASE_URL", cfg.Completion.Engine.BaseURL)
	cfg.Completion.Model = envutil.String("MEDQA_COMPLETION_MODEL", cfg.Completion.Model)
	cfg.Completion.MaxTokens = envutil.Int("MEDQA_MAX_TOKENS", cfg.Completion.MaxTokens)
	cfg.Completion.Temperature = envutil.Float("MEDQA_TEMPERATURE", cfg.Completion.Temperature)
	cfg.Transcription.Model = envutil.String("MEDQA_TRANSCRIPTION_MODEL", cfg.Transcription.Model)
	cfg.Audio.FFmpegPath = envutil.String("MEDQA_FFMPEG_PATH", cfg.Audio.FFmpegPath)
}

// Normalize fills derived defaults and validates cfg in place.
func (cfg *Config) Normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 25 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	c := &cfg.Completion
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		return errors.New("completion.model is required")
	}
	if c.MaxTokens < 1 || c.MaxTokens > MaxTokensLimit {
		return fmt.Errorf("completion.max_tokens must be within 1..%d, got %d", MaxTokensLimit, c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return fmt.Errorf("completion.temperature must be within 0..%.1f, got %g", MaxTemperature, c.Temperature)
	}
	if err := normalizeEngine("completion.engine", &c.Engine); err != nil {
		return err
	}
	if c.Engine.Type == EngineGCPSpeech {
		return errors.New("completion.engine: gcp_speech only supports transcription")
	}

	t := &cfg.Transcription
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = DefaultTranscriptionModel
	}
	if strings.TrimSpace(t.Engine.Type) == "" {
		key := t.Engine.APIKey
		t.Engine = c.Engine
		if key != "" {
			t.Engine.APIKey = key
		}
	}
	if err := normalizeEngine("transcription.engine", &t.Engine); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Audio.FFmpegPath) == "" {
		cfg.Audio.FFmpegPath = "ffmpeg"
	}
	if cfg.Audio.FrameSampleRate <= 0 {
		cfg.Audio.FrameSampleRate = DefaultSampleRate
	}
	if cfg.Audio.ConvertTimeout.Duration <= 0 {
		cfg.Audio.ConvertTimeout = Duration{Duration: 2 * time.Minute}
	}
	if cfg.Audio.MaxUploadBytes <= 0 {
		cfg.Audio.MaxUploadBytes = 25 << 20
	}
	if cfg.QA.MaxInflight <= 0 {
		cfg.QA.MaxInflight = defaultMaxInflight
	}
	return nil
}

func normalizeEngine(field string, e *EngineConfig) error {
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
	e.APIKey = strings.TrimSpace(e.APIKey)
	e.ChatCompletionsPath = strings.TrimSpace(e.ChatCompletionsPath)
	e.TranscriptionsPath = strings.TrimSpace(e.TranscriptionsPath)

	switch e.Type {
	case EngineMock, EngineGCPSpeech:
	case EngineOAIHTTP, "openai_http", "openai":
		e.Type = EngineOAIHTTP
		if e.BaseURL == "" {
			e.BaseURL = DefaultBaseURL
		}
		if e.APIKey == "" {
			return fmt.Errorf("%s.api_key is required for oai_http (set OPENAI_API_KEY)", field)
		}
		if e.ChatCompletionsPath == "" {
			e.ChatCompletionsPath = "/v1/chat/completions"
		}
		if e.TranscriptionsPath == "" {
			e.TranscriptionsPath = "/v1/audio/transcriptions"
		}
	case "":
		return fmt.Errorf("%s.type is required", field)
	default:
		return fmt.Errorf("%s.type %q is not supported", field, e.Type)
	}
	if e.Timeout.Duration < 0 {
		return fmt.Errorf("%s.timeout must not be negative", field)
	}
	if e.Timeout.Duration == 0 {
		e.Timeout = Duration{Duration: 2 * time.Minute}
	}
	return nil
}
