package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "mysql", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "postgres without dsn returns ErrDSNRequired",
			config:  Config{Backend: "postgres"},
			wantErr: ErrDSNRequired,
		},
		{
			name:    "postgres with dsn is valid",
			config:  Config{Backend: "postgres", DSN: "postgres://u:p@localhost/crate"},
			wantErr: nil,
		},
		{
			name:    "negative cache ttl is rejected",
			config:  Config{Backend: "sqlite", CacheTTL: -time.Second},
			wantErr: ErrNegativeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigGetBusyTimeout(t *testing.T) {
	if got := (Config{}).GetBusyTimeout(); got != DefaultBusyTimeout {
		t.Fatalf("expected default %v, got %v", DefaultBusyTimeout, got)
	}
	if got := (Config{BusyTimeout: time.Second}).GetBusyTimeout(); got != time.Second {
		t.Fatalf("expected 1s, got %v", got)
	}
}
