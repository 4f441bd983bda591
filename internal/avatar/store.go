package avatar

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Store persists uploaded profile photos on local disk under
// collision-resistant generated names.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Allowed reports whether the upload's extension is accepted.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the upload under "<uuid-hex>_<sanitized original name>" and
// returns the generated filename. Callers decide what a save failure means;
// provisioning downgrades to the default sentinel instead of aborting.
func (s *Store) Save(file multipart.File, originalName string) (string, error) {
	name := sanitize(originalName)
	if name == "" || !Allowed(name) {
		return "", fmt.Errorf("disallowed filename %q", originalName)
	}
	unique := strings.ReplaceAll(uuid.New().String(), "-", "") + "_" + name

	dst, err := os.Create(filepath.Join(s.dir, unique))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(filepath.Join(s.dir, unique))
		return "", err
	}
	return unique, nil
}

// Remove deletes a stored photo. The sentinel is never removable and a
// missing file is not an error: callers treat cleanup as best-effort.
func (s *Store) Remove(filename string) error {
	if filename == "" || filename == model.DefaultAvatar {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) Exists(filename string) bool {
	if filename == "" || filename == model.DefaultAvatar {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(filename)))
	return err == nil
}

// sanitize strips path components and whitespace from a client-supplied
// filename, keeping only a safe base name.
func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, "._-") == "" {
		return ""
	}
	return out
}
