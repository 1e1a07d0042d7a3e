package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(&buf)))
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufLogger(WarnLevel, &TextFormatter{})
	l.Info("dropped")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn entry missing: %q", out)
	}
}

func TestWithFieldsAndComponent(t *testing.T) {
	l, buf := newBufLogger(DebugLevel, &TextFormatter{})
	l.WithComponent("queue").With(Str("op", "fetch")).Debug("hello", Int("limit", 10))
	out := buf.String()
	for _, want := range []string{"component=queue", "op=fetch", "limit=10", "hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	l, buf := newBufLogger(InfoLevel, &JSONFormatter{})
	l.Info("stored", Str("uuid", "abc"))
	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("not valid json: %v (%q)", err, buf.String())
	}
	if obj["msg"] != "stored" || obj["level"] != "INFO" || obj["uuid"] != "abc" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("error"); err != nil || lvl != ErrorLevel {
		t.Fatalf("parse error level: %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
