package transcript

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	seq := []Entry{
		System("You are helpful."),
		User("hi @assistant"),
		Assistant("Hello! How can I help?"),
		Summary("[Conversation Summary: greetings exchanged]"),
		User("what next?"),
	}

	blob, err := Encode(seq)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, seq) {
		t.Errorf("round trip = %v, want %v", got, seq)
	}
}

func TestEncode_Empty(t *testing.T) {
	blob, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	if blob != "" {
		t.Errorf("Encode(nil) = %q, want empty", blob)
	}
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode("")
	if err != nil {
		t.Fatalf("Decode(\"\"): %v", err)
	}
	if got != nil {
		t.Errorf("Decode(\"\") = %v, want nil", got)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode("[{broken"); err == nil {
		t.Fatal("expected error for malformed blob")
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := Decode(`[{"kind":"tool","text":"x"}]`)
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "unknown kind") {
		t.Errorf("error = %v", err)
	}
}

func TestEncode_UTF8Content(t *testing.T) {
	seq := []Entry{User("héllo 世界 🤖")}
	blob, err := Encode(seq)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].Text != "héllo 世界 🤖" {
		t.Errorf("text = %q", got[0].Text)
	}
}
