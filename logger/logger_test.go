package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWritesFile(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	path := filepath.Join(t.TempDir(), "levelgen.log")
	if err := InitWithFileConfig("info", DefaultFileConfig(path), false); err != nil {
		t.Fatalf("init: %v", err)
	}
	Log.Info("chunk generated", zap.Int("chunk_x", 3))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}
