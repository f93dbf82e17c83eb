package domain

import (
	"strings"
	"unicode"
)

// Credential is one registered identity.
//
// Key is the identity key used on the wire: opaque, case-sensitive and
// never generated by the server. Hash is an argon2id PHC string.
type Credential struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Hash string `json:"hash" yaml:"hash"`
}

// Validate checks that the record can be used on the wire.
//
// A key containing whitespace could never be sent in a CONNECT line, so
// it is rejected at load time rather than silently unusable.
func (c *Credential) Validate() error {
	if c.Key == "" {
		return ErrCredentialInvalid.WithDetails("empty key")
	}
	if strings.IndexFunc(c.Key, unicode.IsSpace) >= 0 {
		return ErrCredentialInvalid.WithDetails("key " + c.Key + " contains whitespace")
	}
	if !strings.HasPrefix(c.Hash, "$argon2id$") {
		return ErrCredentialHashFormat.WithDetails("key " + c.Key)
	}
	return nil
}

// DisplayName returns Name, falling back to Key.
func (c *Credential) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Key
}
