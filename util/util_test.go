package util

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"
	"testing"
	"time"
)

func TestCompactJson(t *testing.T) {
	a, err := CompactJson([]byte(`{ "taxi": [1, 2],  "pass": 3 }`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := CompactJson([]byte(`{"taxi":[1,2],"pass":3}`))
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if _, err := CompactJson([]byte(`{"taxi":`)); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
}

func TestSaveJsonCreatesDirectories(t *testing.T) {
	file := path.Join(t.TempDir(), "a", "b", "out.json")
	if err := SaveJson(file, map[string]int{"x": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := map[string]int{}
	if err := json.Unmarshal(bs, &out); err != nil || out["x"] != 1 {
		t.Fatalf("unexpected contents %s (%v)", bs, err)
	}
}

func TestLiveOutputKeepsLastLine(t *testing.T) {
	o := NewLiveOutput()
	o.Write([]byte("first\nsecond\n"))
	if o.Get() != "second" {
		t.Fatalf("expected second, got %q", o.Get())
	}
	o.Write([]byte("\n"))
	if o.Get() != "second" {
		t.Fatalf("expected empty writes to keep the line, got %q", o.Get())
	}
}

func TestTerminalPrinterFinalDraw(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewTerminalPrinter(buf, time.Hour)
	first := p.NewOutput()
	second := p.NewOutput()
	p.Start(context.Background())
	first.Set("episode 10")
	second.Set("return 3")
	p.Stop()
	out := buf.String()
	if !strings.Contains(out, "episode 10") || !strings.Contains(out, "return 3") {
		t.Fatalf("expected both outputs in the final draw, got %q", out)
	}
}

func TestSliceHelpers(t *testing.T) {
	ints := []int{1, 2}
	c := CopyIntSlice(ints)
	c[0] = 5
	floats := []float64{1.5}
	f := CopyFloatSlice(floats)
	f[0] = 0
	if ints[0] != 1 || floats[0] != 1.5 {
		t.Fatalf("expected copies to be detached")
	}
}
