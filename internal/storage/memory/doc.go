// Package memory provides in-memory storage for boopmesh.
//
// CredentialStore holds the registered identities loaded from the
// credential file. The whole set is swapped atomically on reload, so a
// reader never sees a half-applied file.
package memory
