package provision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/model"
)

type fakeIdentity struct {
	nextID    string
	createErr error
	deleteErr error
	created   int
	deleted   []string
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++
	return f.nextID, nil
}

func (f *fakeIdentity) DeleteAccount(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeProfiles struct {
	createErr error
	stored    map[string]model.Professional
	created   []model.Professional
	deleted   []string
}

func (f *fakeProfiles) Create(ctx context.Context, p model.Professional) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProfiles) Update(ctx context.Context, id string, p model.Professional, newAvatar string) error {
	return nil
}

func (f *fakeProfiles) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProfiles) GetStored(ctx context.Context, id string) (model.Professional, error) {
	p, ok := f.stored[id]
	if !ok {
		return model.Professional{}, apperr.ErrNotFound
	}
	return p, nil
}

type fakePhotos struct {
	savedName string
	saveErr   error
	removed   []string
}

func (f *fakePhotos) Save(file multipart.File, originalName string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	return f.savedName, nil
}

func (f *fakePhotos) Remove(filename string) error {
	f.removed = append(f.removed, filename)
	return nil
}

type nopFile struct{ io.Reader }

func (nopFile) Close() error                                 { return nil }
func (nopFile) ReadAt(p []byte, off int64) (int, error)      { return 0, io.EOF }
func (nopFile) Seek(offset int64, whence int) (int64, error) { return 0, nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreate_InvalidPriceCreatesNothing(t *testing.T) {
	identity := &fakeIdentity{nextID: "psi9"}
	profiles := &fakeProfiles{}
	photos := &fakePhotos{savedName: "abc_foto.png"}
	svc := NewService(identity, profiles, photos, testLogger())

	_, err := svc.Create(context.Background(), Input{
		Email:    "novo@psicoapp.com",
		Password: "senha",
		Name:     "Dra. Nova",
		PriceRaw: "cem reais",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if identity.created != 0 || len(profiles.created) != 0 {
		t.Fatal("validation failure must not write anything")
	}
}

func TestCreate_PhotoCleanedUpWhenAccountFails(t *testing.T) {
	identity := &fakeIdentity{createErr: errors.New("e-mail já cadastrado")}
	profiles := &fakeProfiles{}
	photos := &fakePhotos{savedName: "abc_foto.png"}
	svc := NewService(identity, profiles, photos, testLogger())

	_, err := svc.Create(context.Background(), Input{
		Email:     "novo@psicoapp.com",
		Password:  "senha",
		Name:      "Dra. Nova",
		PriceRaw:  "180",
		Photo:     nopFile{strings.NewReader("img")},
		PhotoName: "foto.png",
	})
	if err == nil {
		t.Fatal("expected account creation failure to propagate")
	}
	if len(photos.removed) != 1 || photos.removed[0] != "abc_foto.png" {
		t.Fatalf("saved photo not cleaned up: %v", photos.removed)
	}
	if len(profiles.created) != 0 {
		t.Fatal("profile must not be written when the account failed")
	}
}

func TestCreate_PhotoFailureDowngradesToDefault(t *testing.T) {
	identity := &fakeIdentity{nextID: "psi9"}
	profiles := &fakeProfiles{}
	photos := &fakePhotos{saveErr: errors.New("disk full")}
	svc := NewService(identity, profiles, photos, testLogger())

	id, err := svc.Create(context.Background(), Input{
		Email:     "novo@psicoapp.com",
		Password:  "senha",
		Name:      "Dra. Nova",
		PriceRaw:  "180.50",
		TagsRaw:   "Ansiedade, TCC",
		Photo:     nopFile{strings.NewReader("img")},
		PhotoName: "foto.png",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "psi9" {
		t.Fatalf("id = %q", id)
	}
	if got := profiles.created[0].AvatarFilename; got != model.DefaultAvatar {
		t.Fatalf("avatar = %q, want sentinel", got)
	}
	if got := profiles.created[0].Tags; len(got) != 2 || got[0] != "Ansiedade" || got[1] != "TCC" {
		t.Fatalf("tags = %v", got)
	}
}

func TestCreate_ProfileFailureLeavesAccount(t *testing.T) {
	identity := &fakeIdentity{nextID: "psi9"}
	profiles := &fakeProfiles{createErr: errors.New("connection reset")}
	photos := &fakePhotos{}
	svc := NewService(identity, profiles, photos, testLogger())

	_, err := svc.Create(context.Background(), Input{
		Email:    "novo@psicoapp.com",
		Password: "senha",
		Name:     "Dra. Nova",
		PriceRaw: "180",
	})
	if err == nil {
		t.Fatal("expected profile write failure to propagate")
	}
	if len(identity.deleted) != 0 {
		t.Fatal("the account must not be rolled back on profile failure")
	}
}

func TestDelete_ToleratesMissingAccount(t *testing.T) {
	identity := &fakeIdentity{deleteErr: apperr.ErrNotFound}
	profiles := &fakeProfiles{stored: map[string]model.Professional{
		"psi1": {ID: "psi1", AvatarFilename: "abc_foto.png"},
	}}
	photos := &fakePhotos{}
	svc := NewService(identity, profiles, photos, testLogger())

	if err := svc.Delete(context.Background(), "psi1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(profiles.deleted) != 1 {
		t.Fatal("profile deletion must proceed when the account is already gone")
	}
	if len(photos.removed) != 1 || photos.removed[0] != "abc_foto.png" {
		t.Fatalf("photo not removed: %v", photos.removed)
	}
}

func TestDelete_KeepsDefaultAvatarFile(t *testing.T) {
	identity := &fakeIdentity{}
	profiles := &fakeProfiles{stored: map[string]model.Professional{
		"psi1": {ID: "psi1", AvatarFilename: model.DefaultAvatar},
	}}
	photos := &fakePhotos{}
	svc := NewService(identity, profiles, photos, testLogger())

	if err := svc.Delete(context.Background(), "psi1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(photos.removed) != 0 {
		t.Fatalf("sentinel avatar must never be removed: %v", photos.removed)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" Ansiedade ,, TCC, ")
	if len(got) != 2 || got[0] != "Ansiedade" || got[1] != "TCC" {
		t.Fatalf("ParseTags = %v", got)
	}
	if empty := ParseTags(""); len(empty) != 0 || empty == nil {
		t.Fatalf("ParseTags(\"\") = %#v, want empty non-nil slice", empty)
	}
}
