package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	in := []interface{}{
		"api_key", "sk-live-123",
		"question", "What is the normal resting heart rate for adults?",
		"max_tokens", 5000,
		"status", 200,
	}
	out := sanitizeKVs(in)
	if len(out) != len(in) {
		t.Fatalf("len=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key=%v", out[1])
	}
	q, _ := out[3].(string)
	if !strings.HasPrefix(q, "hash:") || strings.Contains(q, "heart") {
		t.Fatalf("question=%v", out[3])
	}
	if out[5] != 5000 {
		t.Fatalf("max_tokens=%v", out[5])
	}
	if out[7] != 200 {
		t.Fatalf("status=%v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("out=%v", out)
	}
}

func TestHashValueStable(t *testing.T) {
	a := hashValue("same text")
	b := hashValue("same text")
	if a != b {
		t.Fatalf("hash not stable: %s vs %s", a, b)
	}
	if hashValue("") != "" {
		t.Fatalf("empty input should hash to empty")
	}
}
