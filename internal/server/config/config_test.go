package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/boopmesh/internal/core/domain"
	"github.com/yndnr/boopmesh/internal/infra/confloader"
)

func validConfig() *ServerConfig {
	cfg := Default()
	cfg.Server.Boop.Plain = true
	cfg.Credentials.File = "clients.json"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Boop.Addr != DefaultBoopAddr {
		t.Errorf("Boop.Addr = %q, want %q", cfg.Server.Boop.Addr, DefaultBoopAddr)
	}
	if cfg.Server.Boop.IdleTimeout != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", cfg.Server.Boop.IdleTimeout)
	}
	if cfg.Server.Boop.MaxLineBytes != DefaultMaxLineBytes {
		t.Errorf("MaxLineBytes = %d, want %d", cfg.Server.Boop.MaxLineBytes, DefaultMaxLineBytes)
	}
	if cfg.Server.Boop.Plain {
		t.Error("plaintext must be opt-in")
	}
	if !cfg.Server.HTTP.Enabled || cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP = %+v", cfg.Server.HTTP)
	}
	if !cfg.Credentials.Watch {
		t.Error("credential watching should default on")
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid plain", func(*ServerConfig) {}, ""},
		{"valid tls", func(c *ServerConfig) {
			c.Server.Boop.Plain = false
			c.Server.Boop.TLSCertFile = "cert.pem"
			c.Server.Boop.TLSKeyFile = "key.pem"
		}, ""},
		{"http disabled ignores addr", func(c *ServerConfig) {
			c.Server.HTTP.Enabled = false
			c.Server.HTTP.Addr = ""
		}, ""},
		{"no tls and not plain", func(c *ServerConfig) { c.Server.Boop.Plain = false }, "plain"},
		{"cert without key", func(c *ServerConfig) { c.Server.Boop.TLSCertFile = "cert.pem" }, "together"},
		{"empty addr", func(c *ServerConfig) { c.Server.Boop.Addr = "" }, "server.boop.addr"},
		{"addr without port", func(c *ServerConfig) { c.Server.Boop.Addr = "localhost" }, "server.boop.addr"},
		{"bad http addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "nope" }, "server.http.addr"},
		{"negative idle", func(c *ServerConfig) { c.Server.Boop.IdleTimeout = -time.Second }, "idle_timeout"},
		{"negative write", func(c *ServerConfig) { c.Server.Boop.WriteTimeout = -time.Second }, "write_timeout"},
		{"zero line bytes", func(c *ServerConfig) { c.Server.Boop.MaxLineBytes = 0 }, "max_line_bytes"},
		{"zero queue", func(c *ServerConfig) { c.Server.Boop.OutboundQueue = 0 }, "outbound_queue"},
		{"no credentials", func(c *ServerConfig) { c.Credentials.File = "" }, "credentials.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Verify(cfg)

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrConfigInvalid) {
				t.Fatalf("Verify() error = %v, want %v", err, domain.ErrConfigInvalid)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Boop.TLSKeyFile = "/etc/boopmesh/private/key.pem"
	cfg.Credentials.File = "/srv/secret/clients.json"

	s := Sanitize(cfg)
	if s.Server.Boop.TLSKeyFile != ".../key.pem" {
		t.Errorf("TLSKeyFile = %q", s.Server.Boop.TLSKeyFile)
	}
	if s.Credentials.File != ".../clients.json" {
		t.Errorf("Credentials.File = %q", s.Credentials.File)
	}
	if cfg.Credentials.File != "/srv/secret/clients.json" {
		t.Error("Sanitize() must not modify the original")
	}
}

func TestLoadThroughConfloader(t *testing.T) {
	t.Setenv("BOOPMESH_SERVER_BOOP_OUTBOUND_QUEUE", "64")
	t.Setenv("BOOPMESH_CREDENTIALS_FILE", "/tmp/clients.json")

	cfg := Default()
	l := confloader.NewLoader(confloader.WithDefaults(Default()))
	if err := l.LoadMap(map[string]any{"server.boop.plain": true}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Boop.OutboundQueue != 64 {
		t.Errorf("OutboundQueue = %d, want 64", cfg.Server.Boop.OutboundQueue)
	}
	if cfg.Server.Boop.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %v, want default", cfg.Server.Boop.IdleTimeout)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
