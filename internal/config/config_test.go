package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/serializer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := LegacyCompatible().Validate(); err != nil {
		t.Fatalf("legacy config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
[parser]
max_children = 20

[output]
format = "yaml"
zero_as_null = true

[server]
read_timeout = "3s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parser.MaxChildren != 20 || cfg.Parser.MaxDepth != Default().Parser.MaxDepth {
		t.Errorf("parser: %+v", cfg.Parser)
	}
	if cfg.Server.ReadTimeout.Duration != 3*time.Second {
		t.Errorf("read timeout %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout.Duration != 10*time.Second {
		t.Errorf("write timeout should keep its default, got %v", cfg.Server.WriteTimeout)
	}
	opts := cfg.SerializerOptions()
	if opts.Format != serializer.FormatYAML || !opts.ZeroAsNull {
		t.Errorf("serializer options: %+v", opts)
	}
	if cfg.Path != path {
		t.Errorf("path %q", cfg.Path)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "[parser]\nmax_dept = 10\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a misspelled key")
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Parser.MaxDepth = 0
	cfg.Parser.MaxChildren = -1
	cfg.Output.Format = "xml"
	cfg.Log.Level = "loud"
	cfg.Log.Language = "fr"

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 5 {
		t.Fatalf("expected 5 problems, got %d: %v", got, err)
	}
	for _, field := range []string{"max_depth", "max_children", "output.format", "log.level", "log.language"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error does not mention %s: %v", field, err)
		}
	}
}

func TestValidateMaxDepthBounds(t *testing.T) {
	tests := []struct {
		depth int
		ok    bool
	}{
		{1, true},
		{parser.MaxDepthLimit, true},
		{parser.MaxDepthLimit + 1, false},
		{1 << 30, false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Parser.MaxDepth = tt.depth
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("max_depth %d: err %v, want ok=%v", tt.depth, err, tt.ok)
		}
	}
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "[output]\nformat = \"json\"\n")
	src := filepath.Join(root, "a", "b", "main.c")
	writeFile(t, src, "void main() {}")

	got := FindConfigFile(src)
	want, _ := filepath.Abs(filepath.Join(root, ConfigFileName))
	if got != want {
		t.Errorf("FindConfigFile = %q, want %q", got, want)
	}

	if FindConfigFile(filepath.Join(root, "missing.c")) != "" {
		t.Error("missing start path should not find a config")
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "main.c")
	writeFile(t, src, "void main() {}")

	if _, err := Resolve("", src); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(root, "custom.toml")
	writeFile(t, explicit, "[parser]\nmax_depth = 42\n")
	cfg, err := Resolve(explicit, src)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ParserOptions().MaxDepth != 42 {
		t.Errorf("explicit config ignored: %+v", cfg.Parser)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := LegacyCompatible()
	cfg.Log.Language = "zh"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("saved config does not load: %v", err)
	}
	loaded.Path = ""
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}
