// Package service provides domain services for boopmesh.
//
// CredentialService is the credential lookup consumed by the connection
// state machine: Verify(key, password) reports whether the pair matches
// a registered identity. It is read-only and safe for concurrent use.
//
// Password hashes are argon2id PHC strings:
//
//	$argon2id$v=19$m=<KiB>,t=<passes>,p=<lanes>$<b64 salt>$<b64 hash>
package service
