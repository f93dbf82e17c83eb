package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/yndnr/boopmesh/internal/core/domain"
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultArgon2Params returns the parameters used for new hashes:
// memory=16384 KiB, time=2, parallelism=2, 32-byte key.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:  16 * 1024,
		Time:    2,
		Threads: 2,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Upper bound on memory accepted from a stored hash (1 GiB).
const maxArgon2Memory = 1 << 20

// HashPassword derives an argon2id PHC string for password.
func HashPassword(password string, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return encodePHC(password, salt, p), nil
}

func encodePHC(password string, salt []byte, p Argon2Params) string {
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifyPassword checks password against an argon2id PHC string.
// A malformed hash is an error, a mismatch is (false, nil).
func VerifyPassword(password, phc string) (bool, error) {
	p, salt, want, err := decodePHC(phc)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodePHC(phc string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("not an argon2id PHC string")
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("unsupported version " + parts[2])
	}

	for _, kv := range strings.Split(parts[3], ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("bad parameter " + kv)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("bad parameter " + kv)
		}
		switch name {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Time = uint32(n)
		case "p":
			if n > 255 {
				return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("parallelism out of range")
			}
			p.Threads = uint8(n)
		default:
			return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("unknown parameter " + name)
		}
	}
	if p.Time == 0 || p.Threads == 0 || p.Memory < 8*uint32(p.Threads) || p.Memory > maxArgon2Memory {
		return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("bad salt encoding")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) < 4 {
		return p, nil, nil, domain.ErrCredentialHashFormat.WithDetails("bad hash encoding")
	}

	p.SaltLen = len(salt)
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
