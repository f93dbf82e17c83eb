package credfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/boopmesh/internal/core/domain"
)

// Store receives a complete, validated credential set.
type Store interface {
	Replace(creds []domain.Credential) error
}

// Load reads and decodes the credential file at path.
//
// Records are not validated here; Store.Replace does that.
func Load(path string) ([]domain.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrCredentialFile.WithDetails(path).WithCause(err)
	}

	creds, err := Decode(data, formatOf(path))
	if err != nil {
		return nil, domain.ErrCredentialFile.WithDetails(path).WithCause(err)
	}
	return creds, nil
}

// Format is the encoding of a credential file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses raw credential file content.
func Decode(data []byte, format Format) ([]domain.Credential, error) {
	var creds []domain.Credential

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&creds); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&creds); err != nil {
			return nil, err
		}
	}

	return creds, nil
}

// LoadInto loads path and replaces the contents of store.
func LoadInto(path string, store Store) (int, error) {
	creds, err := Load(path)
	if err != nil {
		return 0, err
	}
	if err := store.Replace(creds); err != nil {
		return 0, err
	}
	return len(creds), nil
}
