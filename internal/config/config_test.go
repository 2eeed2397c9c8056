package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_YAML(t *testing.T) {
	data := []byte("backend: file\nstore_path: /tmp/custom.json\ntrend_window: 20\nlog_level: debug\n")
	got, err := Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{Backend: "file", StorePath: "/tmp/custom.json", TrendWindow: 20, LogLevel: "debug"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{"backend": "sqlite", "trend_window": 5}`)
	got, err := Load(data, ".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Backend != "sqlite" || got.TrendWindow != 5 {
		t.Fatalf("config: %+v", got)
	}
}

func TestLoad_DetectsFormat(t *testing.T) {
	if c, err := Load([]byte(`{"backend": "file"}`), ""); err != nil || c.Backend != "file" {
		t.Fatalf("detect json: %+v err %v", c, err)
	}
	if c, err := Load([]byte("backend: file\n"), ""); err != nil || c.Backend != "file" {
		t.Fatalf("detect yaml: %+v err %v", c, err)
	}
}

func TestLoad_BadContent(t *testing.T) {
	if _, err := Load([]byte("{ not json"), ".json"); err == nil {
		t.Fatalf("Load: bad json accepted")
	}
}

func TestLoadFromPath_MissingFileIsEmptyConfig(t *testing.T) {
	c, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if diff := cmp.Diff(&Config{}, c); diff != "" {
		t.Fatalf("missing file config (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("trend_window: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if c.TrendWindow != 7 {
		t.Fatalf("config: %+v", c)
	}
}
