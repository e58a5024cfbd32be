package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/civica/civica/internal/platform/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LogConfig
		debug  bool
		isText bool
	}{
		{"json info", config.LogConfig{Level: "info", Format: "json"}, false, false},
		{"text debug", config.LogConfig{Level: "debug", Format: "text"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.cfg)
			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			_, isText := logger.Handler().(*slog.TextHandler)
			if isText != tt.isText {
				t.Errorf("text handler = %v, want %v", isText, tt.isText)
			}
		})
	}
}

func TestRun_InvalidContentPath(t *testing.T) {
	cfg := &config.Config{
		Store:       config.StoreConfig{Driver: config.DriverMemory, Key: "k"},
		ContentPath: "/nonexistent/rules.json",
	}
	if err := run(context.Background(), cfg); err == nil {
		t.Fatal("run() should fail for a missing content file")
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Store:  config.StoreConfig{Driver: config.DriverMemory, Key: "k"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}
