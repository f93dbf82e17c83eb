// Package domain defines the core domain models for boopmesh.
//
// Domain models are plain values without IO dependencies:
//
//   - Credential: a registered identity key and its password hash
//   - Errors: structured error codes for credential and configuration failures
package domain
