package cache

import (
	"testing"
	"time"

	"github.com/civica/civica/internal/platform/config"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantDB  int
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", 0, false},
		{"valid-with-db", "redis://localhost:6379/3", 3, false},
		{"empty", "", 0, true},
		{"wrong-scheme", "http://localhost:6379", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseConfig(config.CacheConfig{URL: tt.url})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if opts.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", opts.DB, tt.wantDB)
			}
			if opts.DialTimeout != 5*time.Second {
				t.Errorf("DialTimeout = %v, want 5s", opts.DialTimeout)
			}
		})
	}
}

func TestOpen_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := Open(ctx, config.CacheConfig{URL: "redis://localhost:59999"})
	if err == nil {
		t.Fatal("Open() should return error for unreachable host")
	}
}
