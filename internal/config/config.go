package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`

	// CORSOrigins lists the front-end origins allowed to call the API.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type EngineConfig struct {
	// Type is one of "mock", "oai_http" or "gcp_speech" (transcription only).
	Type string `json:"type" yaml:"type"`

	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is sent as `Authorization: Bearer <api_key>`. Usually supplied via OPENAI_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	ChatCompletionsPath string `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`
	TranscriptionsPath  string `json:"transcriptions_path,omitempty" yaml:"transcriptions_path,omitempty"`

	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type CompletionConfig struct {
	Model       string       `json:"model" yaml:"model"`
	MaxTokens   int          `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64      `json:"temperature" yaml:"temperature"`
	Engine      EngineConfig `json:"engine" yaml:"engine"`
}

type TranscriptionConfig struct {
	Model    string `json:"model" yaml:"model"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Engine defaults to the completion engine when its type is empty.
	Engine EngineConfig `json:"engine" yaml:"engine"`
}

type AudioConfig struct {
	FFmpegPath string `json:"ffmpeg_path,omitempty" yaml:"ffmpeg_path,omitempty"`

	// FrameSampleRate applies to raw PCM16 frames posted without an explicit rate.
	FrameSampleRate int      `json:"frame_sample_rate" yaml:"frame_sample_rate"`
	ConvertTimeout  Duration `json:"convert_timeout,omitempty" yaml:"convert_timeout,omitempty"`
	MaxUploadBytes  int64    `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

type QAConfig struct {
	// MaxInflight bounds concurrent upstream requests across all callers.
	MaxInflight int `json:"max_inflight" yaml:"max_inflight"`
}

type Config struct {
	Env           string              `json:"env" yaml:"env"`
	HTTP          HTTPConfig          `json:"http" yaml:"http"`
	Completion    CompletionConfig    `json:"completion" yaml:"completion"`
	Transcription TranscriptionConfig `json:"transcription" yaml:"transcription"`
	Audio         AudioConfig         `json:"audio" yaml:"audio"`
	QA            QAConfig            `json:"qa" yaml:"qa"`
}
