package envutil

import (
	"reflect"
	"testing"
)

func TestInt(t *testing.T) {
	t.Setenv("MEDQA_TEST_INT", " 800 ")
	if got := Int("MEDQA_TEST_INT", 5); got != 800 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("MEDQA_TEST_INT", "lots")
	if got := Int("MEDQA_TEST_INT", 5); got != 5 {
		t.Fatalf("invalid value should fall back, got %d", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("MEDQA_TEST_FLOAT", "0")
	if got := Float("MEDQA_TEST_FLOAT", 0.2); got != 0 {
		t.Fatalf("explicit zero must be kept, got %v", got)
	}
	t.Setenv("MEDQA_TEST_FLOAT", "")
	if got := Float("MEDQA_TEST_FLOAT", 0.2); got != 0.2 {
		t.Fatalf("got %v", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("MEDQA_TEST_LIST", "http://a, ,http://b,")
	if got := List("MEDQA_TEST_LIST", nil); !reflect.DeepEqual(got, []string{"http://a", "http://b"}) {
		t.Fatalf("got %v", got)
	}
	def := []string{"x"}
	t.Setenv("MEDQA_TEST_LIST", " ")
	if got := List("MEDQA_TEST_LIST", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("got %v", got)
	}
}
