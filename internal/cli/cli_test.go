package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/medqa-backend/internal/audio"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("MEDQA_DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

const mockConfig = "completion:\n  engine:\n    type: mock\n"

// run executes the CLI the way main does and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	askAudioPath = ""
	configPath = ""

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := Execute()
	return out.String(), errOut.String(), err
}

func TestAsk(t *testing.T) {
	cfg := writeConfig(t, mockConfig)

	out, _, err := run(t, "", "--config", cfg, "ask", "What is the normal resting heart rate for adults?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out, "Answer") || !strings.Contains(out, "mock answer ") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAskFromStdinMultipleChoice(t *testing.T) {
	cfg := writeConfig(t, mockConfig)

	out, _, err := run(t, "Which is a beta blocker?\nA. Metoprolol\nB. Lisinopril\n", "--config", cfg, "ask")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out, "multiple choice") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	cfg := writeConfig(t, mockConfig)

	_, errOut, err := run(t, "  \n", "--config", cfg, "ask")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(errOut, "Error: question is empty") {
		t.Fatalf("stderr=%q", errOut)
	}
}

func TestAskUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	cfg := writeConfig(t, "completion:\n  engine:\n    type: oai_http\n    base_url: "+srv.URL+"\n    api_key: sk-bad\n")

	out, errOut, err := run(t, "", "--config", cfg, "ask", "What is a fever?")
	if err == nil {
		t.Fatalf("expected error, out=%q", out)
	}
	if !strings.Contains(errOut, "Error: ") || !strings.Contains(errOut, "Incorrect API key provided") {
		t.Fatalf("stderr=%q", errOut)
	}
	if out != "" {
		t.Fatalf("stdout should be empty on failure, got %q", out)
	}
}

func TestAskAudio(t *testing.T) {
	cfg := writeConfig(t, mockConfig)
	wav := filepath.Join(t.TempDir(), "q.wav")
	if err := os.WriteFile(wav, audio.EncodePCM16Mono([][]byte{{1, 0, 2, 0}}, 16000), 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	out, _, err := run(t, "", "--config", cfg, "ask", "--audio", wav)
	if err != nil {
		t.Fatalf("ask --audio: %v", err)
	}
	if !strings.Contains(out, "Heard:") || !strings.Contains(out, "mock transcript of 48 bytes") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestTranscribe(t *testing.T) {
	cfg := writeConfig(t, mockConfig)
	wav := filepath.Join(t.TempDir(), "q.wav")
	if err := os.WriteFile(wav, audio.EncodePCM16Mono([][]byte{{1, 0}}, 16000), 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	out, _, err := run(t, "", "--config", cfg, "transcribe", wav)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if strings.TrimSpace(out) != "mock transcript of 46 bytes" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestPrompt(t *testing.T) {
	cfg := writeConfig(t, mockConfig)

	out, _, err := run(t, "", "--config", cfg, "prompt", "A. yes\nB. no")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !strings.Contains(out, "multiple_choice") || !strings.HasSuffix(strings.TrimSpace(out), "Answer:") {
		t.Fatalf("unexpected output: %q", out)
	}
}
