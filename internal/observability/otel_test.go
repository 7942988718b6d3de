package observability

import (
	"reflect"
	"testing"
)

func TestOtelSampleRatio(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "-1": 0, "7": 1, "nope": 1}
	for raw, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", raw)
		if got := otelSampleRatio(); got != want {
			t.Fatalf("%q: got %v want %v", raw, got, want)
		}
	}
}

func TestOtelHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, bad, =v, k= ,tenant=medqa")
	want := map[string]string{"x-api-key": "abc", "tenant": "medqa"}
	if got := otelHeaders(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if otelHeaders() != nil {
		t.Fatalf("expected nil headers")
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", " YES ", "on"} {
		if !truthy(v) {
			t.Fatalf("%q should be truthy", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off"} {
		if truthy(v) {
			t.Fatalf("%q should not be truthy", v)
		}
	}
}
