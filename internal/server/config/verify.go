package config

import (
	"net"

	"github.com/yndnr/boopmesh/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyBoop(&cfg.Server.Boop); err != nil {
		return err
	}
	if err := verifyHTTP(&cfg.Server.HTTP); err != nil {
		return err
	}
	if cfg.Credentials.File == "" {
		return invalid("credentials.file is required")
	}
	return nil
}

func verifyBoop(cfg *BoopConfig) error {
	if err := verifyAddr("server.boop.addr", cfg.Addr); err != nil {
		return err
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return invalid("server.boop.tls_cert_file and tls_key_file must be set together")
	}
	if !cfg.TLSEnabled() && !cfg.Plain {
		return invalid("no TLS certificate configured; set server.boop.plain to serve without TLS")
	}

	if cfg.IdleTimeout < 0 {
		return invalid("server.boop.idle_timeout must not be negative")
	}
	if cfg.WriteTimeout < 0 {
		return invalid("server.boop.write_timeout must not be negative")
	}
	if cfg.MaxLineBytes <= 0 {
		return invalid("server.boop.max_line_bytes must be positive")
	}
	if cfg.OutboundQueue <= 0 {
		return invalid("server.boop.outbound_queue must be positive")
	}
	return nil
}

func verifyHTTP(cfg *HTTPConfig) error {
	if !cfg.Enabled {
		return nil
	}
	return verifyAddr("server.http.addr", cfg.Addr)
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return invalid(name + " is required")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return invalid(name + ": " + err.Error())
	}
	return nil
}

func invalid(details string) error {
	return domain.ErrConfigInvalid.WithDetails(details)
}
