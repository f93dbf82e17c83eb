// Package tlsroots manages TLS material for the boop listener and client.
//
//   - watcher.go: server key pair with hot reload (tls.Config.GetCertificate)
//   - roots.go: trusted roots for the client, system pool plus extra CA files
//   - selfsigned.go: self-signed key pairs for development and tests
package tlsroots
