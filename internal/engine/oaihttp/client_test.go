package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/medqa-backend/internal/config"
	"github.com/yungbote/medqa-backend/internal/engine"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Type:                "oai_http",
		BaseURL:             "http://upstream",
		APIKey:              "sk-test",
		ChatCompletionsPath: "/v1/chat/completions",
		TranscriptionsPath:  "/v1/audio/transcriptions",
		Timeout:             config.Duration{Duration: 2 * time.Second},
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestGenerateText(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Fatalf("authorization=%q", got)
			}

			var in chatCompletionRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "gpt-4" {
				t.Fatalf("model=%q", in.Model)
			}
			if in.MaxTokens != 5000 {
				t.Fatalf("max_tokens=%d", in.MaxTokens)
			}
			if in.Temperature != 0.2 {
				t.Fatalf("temperature=%v", in.Temperature)
			}
			if len(in.Messages) != 1 || in.Messages[0].Role != "user" || in.Messages[0].Content != "prompt text\nAnswer:" {
				t.Fatalf("messages=%+v", in.Messages)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"  Hello.  "}}]}`), nil
		}),
	}

	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	out, err := e.GenerateText(context.Background(), "gpt-4", []engine.Message{
		{Role: "user", Content: "prompt text\nAnswer:"},
	}, engine.GenerateOptions{MaxTokens: 5000, Temperature: 0.2})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	// trimming is the caller's job
	if out != "  Hello.  " {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateTextZeroTemperatureIsSent(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			var payload map[string]any
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if v, ok := payload["temperature"]; !ok || v.(float64) != 0 {
				t.Fatalf("temperature missing or wrong: %v", payload["temperature"])
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)
	if _, err := e.GenerateText(context.Background(), "gpt-4", []engine.Message{{Role: "user", Content: "hi"}}, engine.GenerateOptions{}); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
}

func TestGenerateTextHTTPError(t *testing.T) {
	calls := 0
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached for gpt-4"}}`), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)

	_, err := e.GenerateText(context.Background(), "gpt-4", []engine.Message{{Role: "user", Content: "hi"}}, engine.GenerateOptions{})
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("expected *HTTPError, got %T %v", err, err)
	}
	if herr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d", herr.StatusCode)
	}
	if !strings.Contains(err.Error(), "Rate limit reached for gpt-4") {
		t.Fatalf("err=%v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGenerateTextEmptyCompletion(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)
	if _, err := e.GenerateText(context.Background(), "gpt-4", []engine.Message{{Role: "user", Content: "hi"}}, engine.GenerateOptions{}); err == nil {
		t.Fatalf("expected error for empty completion")
	}
}

func TestGenerateTextNoMessages(t *testing.T) {
	e, _ := NewWithHTTPClient(testConfig(), &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			t.Fatalf("no request expected")
			return nil, nil
		}),
	})
	if _, err := e.GenerateText(context.Background(), "gpt-4", []engine.Message{{Role: "user", Content: "  "}}, engine.GenerateOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTranscribe(t *testing.T) {
	wav := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/audio/transcriptions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			if err != nil || mediaType != "multipart/form-data" {
				t.Fatalf("content-type=%q err=%v", req.Header.Get("Content-Type"), err)
			}
			mr := multipart.NewReader(req.Body, params["boundary"])
			fields := map[string]string{}
			var file []byte
			for {
				p, err := mr.NextPart()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("next part: %v", err)
				}
				b, _ := io.ReadAll(p)
				if p.FormName() == "file" {
					if p.FileName() != "question.wav" {
						t.Fatalf("filename=%q", p.FileName())
					}
					file = b
					continue
				}
				fields[p.FormName()] = string(b)
			}
			if !bytes.Equal(file, wav) {
				t.Fatalf("file bytes mismatch")
			}
			if fields["model"] != "whisper-1" || fields["language"] != "en" || fields["response_format"] != "json" {
				t.Fatalf("fields=%v", fields)
			}
			return jsonResponse(http.StatusOK, `{"text":" What is a fever? "}`), nil
		}),
	}

	e, _ := NewWithHTTPClient(testConfig(), client)
	text, err := e.Transcribe(context.Background(), "whisper-1", engine.Audio{
		Data:     wav,
		Filename: "/tmp/uploads/question.wav",
		MimeType: "audio/wav",
	}, engine.TranscribeOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	// transcripts are returned unmodified
	if text != " What is a fever? " {
		t.Fatalf("text=%q", text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	e, _ := NewWithHTTPClient(testConfig(), nil)
	if _, err := e.Transcribe(context.Background(), "whisper-1", engine.Audio{}, engine.TranscribeOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	e := &HTTPError{StatusCode: 401, Body: `{"error":{"message":"Incorrect API key provided"}}`}
	if e.Message() != "Incorrect API key provided" {
		t.Fatalf("message=%q", e.Message())
	}
	raw := &HTTPError{StatusCode: 502, Body: "bad gateway"}
	if raw.Message() != "" || !strings.Contains(raw.Error(), "body=bad gateway") {
		t.Fatalf("raw=%v", raw)
	}
}
