package credfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/boopmesh/internal/core/domain"
	"github.com/yndnr/boopmesh/internal/storage/memory"
)

const (
	hashFoo     = "$argon2id$v=19$m=32,t=2,p=1$V3hudnFvVEJwTnFjNGRMVA$E+sVHTGn3oMAFHhk27r05A"
	hashIyoshok = "$argon2id$v=19$m=16,t=2,p=1$bGVWbjBzNEFxZTZLSkh2MA$Z1pgP1acelPKkL2nny9XsA"
)

const clientsJSON = `[
  {"key": "foo", "hash": "` + hashFoo + `"},
  {"key": "iyoshok", "name": "Yoshi", "hash": "` + hashIyoshok + `"}
]`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// ============================================================
// Load / Decode
// ============================================================

func TestLoad_JSON(t *testing.T) {
	path := write(t, t.TempDir(), "clients.json", clientsJSON)

	creds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("len(creds) = %d, want 2", len(creds))
	}
	if creds[0].Key != "foo" || creds[0].Hash != hashFoo {
		t.Errorf("creds[0] = %+v", creds[0])
	}
	if creds[1].Name != "Yoshi" {
		t.Errorf("creds[1].Name = %q, want Yoshi", creds[1].Name)
	}
}

func TestLoad_YAML(t *testing.T) {
	content := "- key: foo\n  hash: \"" + hashFoo + "\"\n"
	path := write(t, t.TempDir(), "clients.yaml", content)

	creds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(creds) != 1 || creds[0].Key != "foo" {
		t.Errorf("Load() = %+v", creds)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.json")},
		{"not json", write(t, dir, "bad.json", "{not json")},
		{"object not array", write(t, dir, "obj.json", `{"key":"foo"}`)},
		{"unknown field", write(t, dir, "extra.json", `[{"key":"foo","hash":"x","role":"admin"}]`)},
		{"bad yaml", write(t, dir, "bad.yml", "- key: [\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, domain.ErrCredentialFile) {
				t.Errorf("Load() error = %v, want %v", err, domain.ErrCredentialFile)
			}
		})
	}
}

func TestLoadInto(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewCredentialStore()

	n, err := LoadInto(write(t, dir, "clients.json", clientsJSON), store)
	if err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}
	if n != 2 || store.Count() != 2 {
		t.Errorf("LoadInto() = %d, Count() = %d, want 2", n, store.Count())
	}

	dup := `[{"key":"foo","hash":"` + hashFoo + `"},{"key":"foo","hash":"` + hashFoo + `"}]`
	if _, err := LoadInto(write(t, dir, "dup.json", dup), store); !errors.Is(err, domain.ErrCredentialDuplicate) {
		t.Errorf("LoadInto(dup) error = %v, want %v", err, domain.ErrCredentialDuplicate)
	}
	if store.Count() != 2 {
		t.Errorf("Count() = %d after failed load, want previous 2", store.Count())
	}
}

// ============================================================
// Reloader
// ============================================================

func TestReloader_PicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "clients.json", `[{"key":"foo","hash":"`+hashFoo+`"}]`)

	store := memory.NewCredentialStore()
	if _, err := LoadInto(path, store); err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}

	r, err := NewReloader(path, store, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Stop()

	results := make(chan error, 8)
	r.OnReload = func(_ int, err error) { results <- err }
	r.Start()

	write(t, dir, "clients.json", clientsJSON)

	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload not triggered within timeout")
	}

	if _, ok := store.Get("iyoshok"); !ok {
		t.Error("iyoshok should be present after reload")
	}
	if r.LastReload().IsZero() {
		t.Error("LastReload() should be set after a successful reload")
	}
}

func TestReloader_BadFileKeepsPreviousSet(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "clients.json", clientsJSON)

	store := memory.NewCredentialStore()
	if _, err := LoadInto(path, store); err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}

	r, err := NewReloader(path, store, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Stop()

	write(t, dir, "clients.json", `[{"key":"","hash":"`+hashFoo+`"}]`)
	if err := r.Reload(); !errors.Is(err, domain.ErrCredentialInvalid) {
		t.Errorf("Reload() error = %v, want %v", err, domain.ErrCredentialInvalid)
	}
	if store.Count() != 2 {
		t.Errorf("Count() = %d, want previous 2", store.Count())
	}
	if !r.LastReload().IsZero() {
		t.Error("LastReload() should stay zero after a failed reload")
	}
}
