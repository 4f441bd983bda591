package avatar

import (
	"testing"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

func TestResolveURL_Sentinel(t *testing.T) {
	r := NewResolver("/static/img/avatares")
	for _, filename := range []string{"", model.DefaultAvatar} {
		if got := r.ResolveURL(filename); got != DefaultImageURL {
			t.Fatalf("ResolveURL(%q) = %q, want %q", filename, got, DefaultImageURL)
		}
	}
}

func TestResolveURL_Uploaded(t *testing.T) {
	r := NewResolver("/static/img/avatares/")
	got := r.ResolveURL("abc123_foto.jpg")
	want := "/static/img/avatares/abc123_foto.jpg"
	if got != want {
		t.Fatalf("ResolveURL = %q, want %q", got, want)
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"foto.jpg", true},
		{"foto.JPEG", true},
		{"foto.png", true},
		{"script.sh", false},
		{"semextensao", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.name); got != tt.ok {
			t.Fatalf("Allowed(%q) = %v, want %v", tt.name, got, tt.ok)
		}
	}
}
