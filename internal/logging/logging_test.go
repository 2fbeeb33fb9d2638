package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tangzhangming/minic/internal/config"
)

func TestLevelFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LogConfig{Level: "warn"}, false, &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"logger":"minic"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LogConfig{Level: "error"}, true, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("details")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "details") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := NewWithWriter(config.LogConfig{Level: "chatty"}, false, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
