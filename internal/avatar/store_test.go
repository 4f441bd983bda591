package avatar

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) multipart.File {
	return memFile{bytes.NewReader(data)}
}

func TestStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	name, err := store.Save(newMemFile([]byte("fake-jpeg")), "minha foto.jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, "_minha_foto.jpg") {
		t.Fatalf("unexpected generated name %q", name)
	}
	if !store.Exists(name) {
		t.Fatal("saved file should exist")
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil || string(data) != "fake-jpeg" {
		t.Fatalf("stored content mismatch: %q err=%v", data, err)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Exists(name) {
		t.Fatal("removed file should not exist")
	}
	// Removing again is best-effort and must not fail.
	if err := store.Remove(name); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestStoreSaveUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a, err := store.Save(newMemFile([]byte("a")), "foto.png")
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	b, err := store.Save(newMemFile([]byte("b")), "foto.png")
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct names, both %q", a)
	}
}

func TestStoreRejectsBadExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Save(newMemFile([]byte("x")), "payload.exe"); err == nil {
		t.Fatal("expected error for disallowed extension")
	}
}

func TestStoreNeverRemovesSentinel(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Remove(model.DefaultAvatar); err != nil {
		t.Fatalf("Remove sentinel: %v", err)
	}
}
