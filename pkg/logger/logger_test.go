package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestInit_RespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be disabled at LOG_LEVEL=error")
	}
	if !Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at LOG_LEVEL=error")
	}
}
