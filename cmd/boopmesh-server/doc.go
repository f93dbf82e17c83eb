// Package main provides the entry point for boopmesh-server.
//
// The server accepts boop protocol connections (TLS, or plain TCP when
// explicitly allowed), authenticates them against a credential file and
// relays boops between online identity keys. An optional loopback HTTP
// endpoint serves /metrics and /healthz.
//
// Usage:
//
//	boopmesh-server [--config f] [--debug] [--cert f --key f | --plain] [clients_file] [addr]
//	boopmesh-server hash [--key alice] [password]
//	boopmesh-server gencert --cert cert.pem --key key.pem [--host h]...
//
// Configuration is layered: defaults, then the YAML file, then BOOPMESH_*
// environment variables, then flags and positional arguments.
package main
